package reader

import (
	"bufio"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/scene/bvh"
	"github.com/achilleasa/lumen/scene/medium"
	"github.com/achilleasa/lumen/scene/shape"
	"github.com/achilleasa/lumen/types"
)

const (
	// Name of the material assigned to surfaces when no material is selected.
	DefaultMaterialName = "default"

	// Selecting this material name makes the following surfaces materialless.
	NoMaterialName = "none"

	// Placeholder for vacuum in medium interface definitions.
	vacuumToken = "-"
)

// A parse error that also carries the chain of includes that led to the
// offending file.
type ParseError struct {
	File  string
	Line  int
	Msg   string
	Stack []string
}

func (e *ParseError) Error() string {
	var errMsg string
	if e.File != "" {
		errMsg = fmt.Sprintf("[%s: %d] error: %s\n%s", e.File, e.Line, e.Msg, strings.Join(e.Stack, "\n"))
	} else {
		errMsg = fmt.Sprintf("error: %s\n%s", e.Msg, strings.Join(e.Stack, "\n"))
	}
	return strings.Trim(errMsg, "\n")
}

type wavefrontMaterial struct {
	Name string

	// Diffuse/Albedo color.
	Kd types.Vec3

	// Specular color.
	Ks types.Vec3

	// Emissive color.
	Ke types.Vec3

	// Index of refraction.
	Ni float32

	// True if this material is used by at least one primitive.
	Used bool

	material *scene.Material
}

// Map wavefront material properties to a scene material.
func (wf *wavefrontMaterial) sceneMaterial() *scene.Material {
	if wf.material != nil {
		return wf.material
	}

	mat := &scene.Material{
		Name:    wf.Name,
		Diffuse: types.RGB(wf.Kd[0], wf.Kd[1], wf.Kd[2]),
	}
	switch {
	case wf.Ke.MaxComponent() > 0:
		mat.Type = scene.EmissiveMaterial
		mat.Emissive = types.RGB(wf.Ke[0], wf.Ke[1], wf.Ke[2])
	case wf.Ks.MaxComponent() > 0 && wf.Ni != 0:
		mat.Type = scene.RefractiveMaterial
		mat.IOR = wf.Ni
	case wf.Ks.MaxComponent() > 0:
		mat.Type = scene.SpecularMaterial
	default:
		mat.Type = scene.DiffuseMaterial
	}
	wf.material = mat
	return mat
}

// Per-triangle surface attributes.
type faceAttrs struct {
	material        *scene.Material
	mediumInterface *scene.MediumInterface
}

// Accumulates the geometry of the mesh currently being parsed.
type meshBuilder struct {
	name string

	// Unshared vertex data; three entries per triangle.
	vertices []types.Vec3
	normals  []types.Vec3
	faces    []faceAttrs

	// Non-polygonal primitives.
	extra []scene.Primitive
}

func (mb *meshBuilder) isEmpty() bool {
	return len(mb.faces) == 0 && len(mb.extra) == 0
}

func (mb *meshBuilder) build() (*Mesh, error) {
	mesh := &Mesh{Name: mb.name}
	if len(mb.faces) != 0 {
		indices := make([]int32, len(mb.vertices))
		for i := range indices {
			indices[i] = int32(i)
		}
		triMesh, err := shape.NewTriangleMesh(mb.vertices, mb.normals, indices)
		if err != nil {
			return nil, err
		}
		for i, tri := range triMesh.Triangles() {
			attrs := mb.faces[i]
			mesh.Primitives = append(
				mesh.Primitives,
				scene.NewGeometricPrimitive(tri, attrs.material, scene.WithMediumInterface(attrs.mediumInterface)),
			)
		}
	}
	mesh.Primitives = append(mesh.Primitives, mb.extra...)
	return mesh, nil
}

type wavefrontSceneReader struct {
	logger log.Logger

	// The parsed scene.
	parsed *Parsed

	// The mesh currently being parsed.
	curMesh *meshBuilder

	// Per-mesh acceleration structures shared by all instances of a mesh.
	meshAccel map[string]*bvh.Accel

	// A map of material names to parsed wavefront materials
	matNameToIndex map[string]int

	// Parsed wavefront materials.
	materials []*wavefrontMaterial

	// Currently selected material. A nil material with materialless set
	// makes surfaces materialless.
	curMaterial  *wavefrontMaterial
	materialless bool

	// Currently selected medium interface.
	curInterface *scene.MediumInterface

	// List of vertices, normals and uv coords.
	vertexList []types.Vec3
	normalList []types.Vec3
	uvList     []types.Vec2

	// An error stack that provides additional error information when
	// scene files include other files (models, mat libs e.t.c)
	errStack []string
}

// Create a new wavefront scene reader.
func newWavefrontReader() *wavefrontSceneReader {
	return &wavefrontSceneReader{
		logger: log.New("wavefront scene reader"),
		parsed: &Parsed{
			Materials: make(map[string]*scene.Material),
			Media:     make(map[string]scene.Medium),
		},
		meshAccel:      make(map[string]*bvh.Accel),
		matNameToIndex: make(map[string]int),
	}
}

// Read scene definition.
func (r *wavefrontSceneReader) Read(sceneRes *asset.Resource) (*Parsed, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	err := r.parse(sceneRes)
	if err != nil {
		return nil, err
	}
	if err = r.flushMesh(); err != nil {
		return nil, r.emitError("", 0, "%s", err.Error())
	}

	r.processMaterials()

	r.logger.Noticef(
		"parsed scene in %d ms: %d meshes, %d instances, %d materials, %d media",
		time.Since(start).Milliseconds(),
		len(r.parsed.Meshes), len(r.parsed.Instances), len(r.parsed.Materials), len(r.parsed.Media),
	)
	return r.parsed, nil
}

// Register the materials that are in use with the parsed scene.
func (r *wavefrontSceneReader) processMaterials() {
	pruned := 0
	for _, wfMat := range r.materials {
		if !wfMat.Used {
			r.logger.Infof("skipping unused material %q", wfMat.Name)
			pruned++
			continue
		}
		r.parsed.Materials[wfMat.Name] = wfMat.sceneMaterial()
	}

	if pruned > 0 {
		r.logger.Noticef("pruned %d unused materials", pruned)
	}
}

// Generate an error that also includes any data in the error stack.
func (r *wavefrontSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	return &ParseError{
		File:  file,
		Line:  line,
		Msg:   fmt.Sprintf(msgFormat, args...),
		Stack: append([]string(nil), r.errStack...),
	}
}

// Push a frame to the error stack.
func (r *wavefrontSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *wavefrontSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Select the default material for surfaces not using one, creating it on
// first use.
func (r *wavefrontSceneReader) defaultMaterial() *wavefrontMaterial {
	matIndex, exists := r.matNameToIndex[DefaultMaterialName]
	if !exists {
		r.materials = append(r.materials, &wavefrontMaterial{
			Name: DefaultMaterialName,
			Kd:   types.Vec3{0.7, 0.7, 0.7},
		})
		matIndex = len(r.materials) - 1
		r.matNameToIndex[DefaultMaterialName] = matIndex
	}
	r.curMaterial = r.materials[matIndex]
	return r.curMaterial
}

// Get the attributes for the next surface, flagging its material as used.
func (r *wavefrontSceneReader) surfaceAttrs() faceAttrs {
	attrs := faceAttrs{mediumInterface: r.curInterface}
	if r.materialless {
		return attrs
	}
	if r.curMaterial == nil {
		r.defaultMaterial()
	}
	r.curMaterial.Used = true
	attrs.material = r.curMaterial.sceneMaterial()
	return attrs
}

// Get the mesh being parsed, creating a default one if needed.
func (r *wavefrontSceneReader) currentMesh() *meshBuilder {
	if r.curMesh == nil {
		r.curMesh = &meshBuilder{name: "default"}
	}
	return r.curMesh
}

// Finish the mesh being parsed. Meshes without any primitives are dropped.
func (r *wavefrontSceneReader) flushMesh() error {
	mb := r.curMesh
	r.curMesh = nil
	if mb == nil {
		return nil
	}
	if mb.isEmpty() {
		r.logger.Warningf(`dropping mesh "%s" as it contains no primitives`, mb.name)
		return nil
	}

	mesh, err := mb.build()
	if err != nil {
		return fmt.Errorf("mesh %q: %w", mb.name, err)
	}
	r.parsed.Meshes = append(r.parsed.Meshes, mesh)
	return nil
}

// Parse wavefront object scene format.
func (r *wavefrontSceneReader) parse(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	// The main obj file may include (call) several other object files. Each
	// object file contains 1-based indices (when they are positive). By
	// tracking the current vertex/uv/normal offsets we can apply them
	// while parsing faces to select the correct coordinates.
	relVertexOffset := len(r.vertexList)
	relUvOffset := len(r.uvList)
	relNormalOffset := len(r.normalList)

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "call", "mtllib":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			r.pushFrame(fmt.Sprintf("referenced from %s:%d [%s]", res.Path(), lineNum, lineTokens[0]))

			incRes, err := asset.NewResource(lineTokens[1], res)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			switch lineTokens[0] {
			case "call":
				err = r.parse(incRes)
			case "mtllib":
				err = r.parseMaterials(incRes)
			}
			incRes.Close()

			if err != nil {
				return err
			}
			r.popFrame()
		case "usemtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "usemtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName := lineTokens[1]
			if matName == NoMaterialName {
				r.curMaterial = nil
				r.materialless = true
				continue
			}

			matIndex, exists := r.matNameToIndex[matName]
			if !exists {
				if matName != DefaultMaterialName {
					return r.emitError(res.Path(), lineNum, `undefined material with name "%s"`, matName)
				}
				r.defaultMaterial()
				matIndex = r.matNameToIndex[matName]
			}

			// Activate material
			r.curMaterial = r.materials[matIndex]
			r.materialless = false
		case "v":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.vertexList = append(r.vertexList, v)
		case "vn":
			v, err := parseVec3(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.normalList = append(r.normalList, v)
		case "vt":
			v, err := parseVec2(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.uvList = append(r.uvList, v)
		case "g", "o":
			if len(lineTokens) < 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument for object name; got %d`, lineTokens[0], len(lineTokens)-1)
			}

			if err = r.flushMesh(); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.curMesh = &meshBuilder{name: lineTokens[1]}
		case "f":
			err = r.parseFace(lineTokens, relVertexOffset, relUvOffset, relNormalOffset)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "sphere":
			err = r.parseSphere(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "medium":
			err = r.parseMedium(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "interface":
			err = r.parseInterface(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		case "instance":
			// Instances may reference the mesh that is currently being parsed.
			if err = r.flushMesh(); err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}

			instance, err := r.parseMeshInstance(lineTokens)
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
			r.parsed.Instances = append(r.parsed.Instances, instance)
		}
	}

	if err = scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err.Error())
	}
	return nil
}

// Parse a sphere definition: sphere x y z radius
func (r *wavefrontSceneReader) parseSphere(lineTokens []string) error {
	if len(lineTokens) != 5 {
		return fmt.Errorf(`unsupported syntax for "sphere"; expected 4 arguments: x y z radius; got %d`, len(lineTokens)-1)
	}

	center, err := parseVec3(lineTokens[:4])
	if err != nil {
		return err
	}
	radius, err := parseFloat32([]string{lineTokens[0], lineTokens[4]})
	if err != nil {
		return err
	}
	if radius <= 0 {
		return fmt.Errorf("sphere radius must be positive; got %v", radius)
	}

	attrs := r.surfaceAttrs()
	mesh := r.currentMesh()
	mesh.extra = append(
		mesh.extra,
		scene.NewGeometricPrimitive(shape.NewSphere(center, radius), attrs.material, scene.WithMediumInterface(attrs.mediumInterface)),
	)
	return nil
}

// Parse a homogeneous medium definition. Definitions use one of the
// following formats:
// medium name sigma_a sigma_s
// medium name sigma_a_r sigma_a_g sigma_a_b sigma_s_r sigma_s_g sigma_s_b
func (r *wavefrontSceneReader) parseMedium(lineTokens []string) error {
	if len(lineTokens) != 4 && len(lineTokens) != 8 {
		return fmt.Errorf(`unsupported syntax for "medium"; expected 3 or 7 arguments: name sigma_a sigma_s; got %d`, len(lineTokens)-1)
	}

	name := lineTokens[1]
	if name == vacuumToken {
		return fmt.Errorf(`medium name "%s" is reserved`, vacuumToken)
	}
	if _, exists := r.parsed.Media[name]; exists {
		return fmt.Errorf(`medium "%s" already defined`, name)
	}

	values := make([]float32, len(lineTokens)-2)
	for i, tok := range lineTokens[2:] {
		v, err := strconv.ParseFloat(tok, 32)
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("medium coefficients must be non-negative; got %v", v)
		}
		values[i] = float32(v)
	}

	var sigmaA, sigmaS types.Spectrum
	if len(values) == 2 {
		sigmaA, sigmaS = types.ConstSpectrum(values[0]), types.ConstSpectrum(values[1])
	} else {
		sigmaA = types.RGB(values[0], values[1], values[2])
		sigmaS = types.RGB(values[3], values[4], values[5])
	}

	r.parsed.Media[name] = medium.NewHomogeneous(name, sigmaA, sigmaS)
	return nil
}

// Parse a medium interface definition: interface inside outside
// Either medium may be "-" to indicate vacuum.
func (r *wavefrontSceneReader) parseInterface(lineTokens []string) error {
	if len(lineTokens) != 3 {
		return fmt.Errorf(`unsupported syntax for "interface"; expected 2 arguments: inside outside; got %d`, len(lineTokens)-1)
	}

	lookup := func(name string) (scene.Medium, error) {
		if name == vacuumToken {
			return nil, nil
		}
		m, exists := r.parsed.Media[name]
		if !exists {
			return nil, fmt.Errorf(`undefined medium with name "%s"`, name)
		}
		return m, nil
	}

	inside, err := lookup(lineTokens[1])
	if err != nil {
		return err
	}
	outside, err := lookup(lineTokens[2])
	if err != nil {
		return err
	}

	if inside == nil && outside == nil {
		r.curInterface = nil
		return nil
	}
	r.curInterface = scene.NewMediumInterface(inside, outside)
	return nil
}

// Parse mesh instance definition. Definitions use the following format:
// instance mesh_name tX tY tZ yaw pitch roll sX sY sZ
// where:
// - tX, tY, tZ       : translation vector
// - yaw, pitch, roll : rotation angles in degrees
// - sX, sY, sZ       : scale
func (r *wavefrontSceneReader) parseMeshInstance(lineTokens []string) (*scene.TransformedPrimitive, error) {
	if len(lineTokens) != 11 {
		return nil, fmt.Errorf(`unsupported syntax for "instance"; expected 10 arguments: mesh_name tX tY tZ yaw pitch roll sX sY sZ; got %d`, len(lineTokens)-1)
	}

	// Find object by name
	meshName := lineTokens[1]
	var mesh *Mesh
	for _, m := range r.parsed.Meshes {
		if m.Name == meshName {
			mesh = m
			break
		}
	}
	if mesh == nil {
		return nil, fmt.Errorf(`unknown mesh with name "%s"`, meshName)
	}

	var params [9]float32
	for index := range params {
		v, err := strconv.ParseFloat(lineTokens[index+2], 32)
		if err != nil {
			return nil, err
		}
		params[index] = float32(v)
	}
	translation := types.XYZ(params[0], params[1], params[2])
	scale := types.XYZ(params[6], params[7], params[8])

	// Rotation angles are specified in degrees
	toRad := float32(math.Pi / 180.0)
	rotation := types.QuatFromEuler(params[3]*toRad, params[4]*toRad, params[5]*toRad)

	// Generate final matrix: M = T * R * S
	transform := types.Translate4(translation).Mul4(rotation.Mat4().Mul4(types.Scale4(scale)))

	accel, exists := r.meshAccel[meshName]
	if !exists {
		accel = bvh.New(mesh.Primitives)
		r.meshAccel[meshName] = accel
	}

	inst, err := scene.NewTransformedPrimitive(accel, transform)
	if err != nil {
		return nil, fmt.Errorf("instance of %q: %w", meshName, err)
	}
	return inst, nil
}

// Parse face definition. Each face definitions consists of 3 arguments,
// one for each vertex. Each one of the vertex arguments is comprised of
// 1, 2 or 3 args separated by a slash character. The following formats are
// supported:
// - vertexIndex
// - vertexIndex/uvIndex
// - vertexIndex//normalIndex
// - vertexIndex/uvIndex/normalIndex
//
// Indices start from 1 and may be negative to indicate
// an offset off the end of the vertex/uv list.
//
// This method only works with triangular/quad faces and will return an error if a
// face with more than 4 vertices is encountered.
func (r *wavefrontSceneReader) parseFace(lineTokens []string, relVertexOffset, relUvOffset, relNormalOffset int) error {
	if len(lineTokens) < 4 || len(lineTokens) > 5 {
		return fmt.Errorf(`unsupported syntax for "f"; expected 3 arguments for triangular face or 4 arguments for a quad face; got %d. Select the triangulation option in your exporter`, len(lineTokens)-1)
	}

	var vertices [4]types.Vec3
	var normals [4]types.Vec3
	var vOffset int
	var err error
	expIndices := 0
	hasNormals := false
	for arg := 0; arg < len(lineTokens)-1; arg++ {
		vTokens := strings.Split(lineTokens[arg+1], "/")

		// The first arg defines the format for the following args
		if arg == 0 {
			expIndices = len(vTokens)
		} else if len(vTokens) != expIndices {
			return fmt.Errorf("expected each face argument to contain %d indices; arg %d contains %d indices", expIndices, arg, len(vTokens))
		}

		// Faces must at least define a vertex coord
		if vTokens[0] == "" {
			return fmt.Errorf("face argument %d does not include a vertex index", arg)
		}

		vOffset, err = selectFaceCoordIndex(vTokens[0], len(r.vertexList), relVertexOffset)
		if err != nil {
			return fmt.Errorf("could not parse vertex coord for face argument %d: %s", arg, err.Error())
		}
		vertices[arg] = r.vertexList[vOffset]

		// UV coords are validated but not used by the triangle shapes
		if expIndices > 1 && vTokens[1] != "" {
			_, err = selectFaceCoordIndex(vTokens[1], len(r.uvList), relUvOffset)
			if err != nil {
				return fmt.Errorf("could not parse tex coord for face argument %d: %s", arg, err.Error())
			}
		}

		// Parse normal coords if specified
		if expIndices > 2 && vTokens[2] != "" {
			vOffset, err = selectFaceCoordIndex(vTokens[2], len(r.normalList), relNormalOffset)
			if err != nil {
				return fmt.Errorf("could not parse normal coord for face argument %d: %s", arg, err.Error())
			}
			normals[arg] = r.normalList[vOffset]
			hasNormals = true
		}
	}

	// Vertices without a normal use the face normal
	e01 := vertices[1].Sub(vertices[0])
	e02 := vertices[2].Sub(vertices[0])
	faceNormal := e01.Cross(e02).Normalize()
	for i := range normals {
		if !hasNormals || normals[i].IsZero() {
			normals[i] = faceNormal
		}
	}

	attrs := r.surfaceAttrs()
	mesh := r.currentMesh()

	// Assemble vertices into one or two triangles depending on whether we are parsing a triangular or a quad face
	indiceList := [][3]int{{0, 1, 2}}
	if len(lineTokens) == 5 {
		indiceList = append(indiceList, [3]int{0, 2, 3})
	}
	for _, indices := range indiceList {
		for _, selectIndex := range indices {
			mesh.vertices = append(mesh.vertices, vertices[selectIndex])
			mesh.normals = append(mesh.normals, normals[selectIndex])
		}
		mesh.faces = append(mesh.faces, attrs)
	}

	return nil
}

// Parse a wavefront material library.
func (r *wavefrontSceneReader) parseMaterials(res *asset.Resource) error {
	var lineNum int = 0
	var err error

	r.logger.Infof(`parsing material library "%s"`, res.Path())

	scanner := bufio.NewScanner(res)

	var curMaterial *wavefrontMaterial = nil
	var matName string = ""

	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		switch lineTokens[0] {
		case "newmtl":
			if len(lineTokens) != 2 {
				return r.emitError(res.Path(), lineNum, `unsupported syntax for "newmtl"; expected 1 argument; got %d`, len(lineTokens)-1)
			}

			matName = lineTokens[1]
			if matName == NoMaterialName {
				return r.emitError(res.Path(), lineNum, `material name "%s" is reserved`, matName)
			}
			if _, exists := r.matNameToIndex[matName]; exists {
				return r.emitError(res.Path(), lineNum, `material "%s" already defined`, matName)
			}

			// Allocate new material and add it to library
			curMaterial = &wavefrontMaterial{Name: matName}
			r.materials = append(r.materials, curMaterial)
			r.matNameToIndex[matName] = len(r.materials) - 1
		default:
			if curMaterial == nil {
				return r.emitError(res.Path(), lineNum, `got "%s" without a "newmtl"`, lineTokens[0])
			}

			switch lineTokens[0] {
			case "include":
				if len(lineTokens) < 2 {
					return r.emitError(res.Path(), lineNum, `unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
				}

				baseMaterialIndex, exists := r.matNameToIndex[lineTokens[1]]
				if !exists {
					return r.emitError(res.Path(), lineNum, `could not include unknown material "%s"`, lineTokens[1])
				}

				// Overwrite material but keep the original name
				*curMaterial = *r.materials[baseMaterialIndex]
				curMaterial.Name = matName
				curMaterial.Used = false
				curMaterial.material = nil
			case "Kd", "Ks", "Ke":
				var target *types.Vec3
				switch lineTokens[0] {
				case "Kd":
					target = &curMaterial.Kd
				case "Ks":
					target = &curMaterial.Ks
				case "Ke":
					target = &curMaterial.Ke
				}

				*target, err = parseVec3(lineTokens)
			case "Ni":
				curMaterial.Ni, err = parseFloat32(lineTokens)
			}

			// Report any errors
			if err != nil {
				return r.emitError(res.Path(), lineNum, "%s", err.Error())
			}
		}
	}

	return scanner.Err()
}

// Given an index for a face coord type (vertex, normal, tex) calculate the
// proper offset into the coord list. Wavefront format can also use negative
// indices to reference elements from the end of the coord list.
func selectFaceCoordIndex(indexToken string, coordListLen int, relOffset int) (int, error) {
	index, err := strconv.ParseInt(indexToken, 10, 32)
	if err != nil {
		return -1, err
	}

	var vOffset int = 0
	if index < 0 {
		vOffset = coordListLen + int(index)
	} else {
		vOffset = relOffset + int(index-1)
	}
	if vOffset < 0 || vOffset >= coordListLen {
		return -1, fmt.Errorf("index out of bounds")
	}
	return vOffset, nil
}

// Parse a float scalar value.
func parseFloat32(lineTokens []string) (float32, error) {
	if len(lineTokens) < 2 {
		return 0, fmt.Errorf(`unsupported syntax for "%s"; expected 1 argument; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	val, err := strconv.ParseFloat(lineTokens[1], 32)
	if err != nil {
		return 0, err
	}

	return float32(val), nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	if len(lineTokens) < 4 {
		return types.Vec3{}, fmt.Errorf(`unsupported syntax for "%s"; expected 3 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec3{}
	for tokIdx := 1; tokIdx <= 3; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}

// Parse a Vec2 row.
func parseVec2(lineTokens []string) (types.Vec2, error) {
	if len(lineTokens) < 3 {
		return types.Vec2{}, fmt.Errorf(`unsupported syntax for "%s"; expected 2 arguments; got %d`, lineTokens[0], len(lineTokens)-1)
	}

	v := types.Vec2{}
	for tokIdx := 1; tokIdx <= 2; tokIdx++ {
		coord, err := strconv.ParseFloat(lineTokens[tokIdx], 32)
		if err != nil {
			return v, err
		}
		v[tokIdx-1] = float32(coord)
	}
	return v, nil
}
