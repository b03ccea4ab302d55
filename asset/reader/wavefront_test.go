package reader

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/scene/shape"
	"github.com/achilleasa/lumen/types"
)

func TestMain(m *testing.M) {
	log.Silence()
	os.Exit(m.Run())
}

// Write a set of files into a temp folder and return the folder path.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, contents := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func readFiles(t *testing.T, files map[string]string) *Parsed {
	t.Helper()
	dir := writeFiles(t, files)
	parsed, err := ReadFile(filepath.Join(dir, "scene.obj"))
	if err != nil {
		t.Fatal(err)
	}
	return parsed
}

func geometricAt(t *testing.T, mesh *Mesh, index int) *scene.GeometricPrimitive {
	t.Helper()
	if index >= len(mesh.Primitives) {
		t.Fatalf("expected mesh %q to contain at least %d primitives; got %d", mesh.Name, index+1, len(mesh.Primitives))
	}
	geo, ok := scene.AsGeometric(mesh.Primitives[index])
	if !ok {
		t.Fatalf("expected primitive %d of mesh %q to be geometric", index, mesh.Name)
	}
	return geo
}

func TestSelectFaceCoordIndex(t *testing.T) {
	type spec struct {
		token     string
		listLen   int
		relOffset int
		expIndex  int
		expErr    bool
	}
	specs := []spec{
		{"1", 3, 0, 0, false},
		{"3", 3, 0, 2, false},
		{"-1", 3, 0, 2, false},
		{"-3", 3, 0, 0, false},
		{"1", 6, 3, 3, false},
		{"-1", 6, 3, 5, false},
		{"4", 3, 0, -1, true},
		{"-4", 3, 0, -1, true},
		{"0", 3, 0, -1, true},
		{"x", 3, 0, -1, true},
	}

	for specIndex, s := range specs {
		index, err := selectFaceCoordIndex(s.token, s.listLen, s.relOffset)
		if s.expErr {
			if err == nil {
				t.Fatalf("[spec %d] expected an error", specIndex)
			}
			continue
		}
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", specIndex, err)
		}
		if index != s.expIndex {
			t.Fatalf("[spec %d] expected index %d; got %d", specIndex, s.expIndex, index)
		}
	}
}

func TestParseHelpers(t *testing.T) {
	v3, err := parseVec3([]string{"v", "1", "-2.5", "3e1"})
	if err != nil {
		t.Fatal(err)
	}
	if v3 != types.XYZ(1, -2.5, 30) {
		t.Fatalf("expected parsed vec3 to be (1, -2.5, 30); got %v", v3)
	}

	v2, err := parseVec2([]string{"vt", "0.25", "0.75"})
	if err != nil {
		t.Fatal(err)
	}
	if v2 != types.XY(0.25, 0.75) {
		t.Fatalf("expected parsed vec2 to be (0.25, 0.75); got %v", v2)
	}

	f, err := parseFloat32([]string{"Ni", "1.5"})
	if err != nil {
		t.Fatal(err)
	}
	if f != 1.5 {
		t.Fatalf("expected parsed float to be 1.5; got %v", f)
	}

	if _, err = parseVec3([]string{"v", "1", "2"}); err == nil {
		t.Fatal("expected an error for a short vec3 row")
	}
	if _, err = parseVec2([]string{"vt", "a", "2"}); err == nil {
		t.Fatal("expected an error for a malformed vec2 row")
	}
	if _, err = parseFloat32([]string{"Ni"}); err == nil {
		t.Fatal("expected an error for a missing scalar")
	}
}

func TestReadTrianglesAndQuads(t *testing.T) {
	parsed := readFiles(t, map[string]string{
		"scene.obj": `
# a quad and a triangle
v -1 -1 0
v 1 -1 0
v 1 1 0
v -1 1 0
vt 0 0
vn 0 0 1
o quad
f 1/1/1 2/1/1 3/1/1 4/1/1
o tri
f -4 -3 -2
o empty
`,
	})

	if len(parsed.Meshes) != 2 {
		t.Fatalf("expected 2 meshes; got %d", len(parsed.Meshes))
	}
	if parsed.Meshes[0].Name != "quad" || len(parsed.Meshes[0].Primitives) != 2 {
		t.Fatalf("expected quad mesh to be split into 2 triangles; got %q with %d primitives", parsed.Meshes[0].Name, len(parsed.Meshes[0].Primitives))
	}
	if parsed.Meshes[1].Name != "tri" || len(parsed.Meshes[1].Primitives) != 1 {
		t.Fatalf("expected tri mesh with 1 triangle; got %q with %d primitives", parsed.Meshes[1].Name, len(parsed.Meshes[1].Primitives))
	}

	tri, ok := shape.AsTriangle(geometricAt(t, parsed.Meshes[0], 1).Shape())
	if !ok {
		t.Fatal("expected quad primitives to use triangle shapes")
	}
	expVertices := []types.Vec3{types.XYZ(-1, -1, 0), types.XYZ(1, 1, 0), types.XYZ(-1, 1, 0)}
	for i, exp := range expVertices {
		if got := tri.Vertex(i); got != exp {
			t.Fatalf("expected second quad triangle vertex %d to be %v; got %v", i, exp, got)
		}
	}

	mat := geometricAt(t, parsed.Meshes[1], 0).Material()
	if mat == nil || mat.Name != DefaultMaterialName {
		t.Fatalf("expected faces without a usemtl to use the default material; got %v", mat)
	}
	if _, exists := parsed.Materials[DefaultMaterialName]; !exists {
		t.Fatal("expected default material to be registered")
	}

	if got := len(parsed.Primitives()); got != 3 {
		t.Fatalf("expected 3 top-level primitives; got %d", got)
	}
}

func TestMaterials(t *testing.T) {
	parsed := readFiles(t, map[string]string{
		"scene.obj": `
mtllib mat/lib.mtl
v 0 0 0
v 1 0 0
v 0 1 0
usemtl red
f 1 2 3
usemtl light
f 1 2 3
usemtl glass
f 1 2 3
usemtl mirror
f 1 2 3
usemtl red2
f 1 2 3
usemtl none
f 1 2 3
`,
		"mat/lib.mtl": `
newmtl red
Kd 1 0 0

newmtl light
Ke 5 5 5

newmtl glass
Ks 1 1 1
Ni 1.5

newmtl mirror
Ks 1 1 1

newmtl red2
include red

newmtl unused
Kd 0 0 1
`,
	})

	mesh := parsed.Meshes[0]
	type spec struct {
		name    string
		matType scene.MaterialType
	}
	specs := []spec{
		{"red", scene.DiffuseMaterial},
		{"light", scene.EmissiveMaterial},
		{"glass", scene.RefractiveMaterial},
		{"mirror", scene.SpecularMaterial},
		{"red2", scene.DiffuseMaterial},
	}
	for specIndex, s := range specs {
		mat := geometricAt(t, mesh, specIndex).Material()
		if mat == nil {
			t.Fatalf("[spec %d] expected a material", specIndex)
		}
		if mat.Name != s.name || mat.Type != s.matType {
			t.Fatalf("[spec %d] expected material %q of type %d; got %q of type %d", specIndex, s.name, s.matType, mat.Name, mat.Type)
		}
	}

	if mat := geometricAt(t, mesh, 1).Material(); mat.Emissive != types.ConstSpectrum(5) {
		t.Fatalf("expected emissive spectrum 5; got %v", mat.Emissive)
	}
	if mat := geometricAt(t, mesh, 2).Material(); mat.IOR != 1.5 {
		t.Fatalf("expected IOR 1.5; got %v", mat.IOR)
	}
	if mat := geometricAt(t, mesh, 4).Material(); mat.Diffuse != types.RGB(1, 0, 0) {
		t.Fatalf("expected included material to inherit its diffuse color; got %v", mat.Diffuse)
	}
	if mat := geometricAt(t, mesh, 5).Material(); mat != nil {
		t.Fatalf("expected usemtl none to produce a materialless surface; got %v", mat)
	}

	if len(parsed.Materials) != 5 {
		t.Fatalf("expected 5 used materials; got %d", len(parsed.Materials))
	}
	if _, exists := parsed.Materials["unused"]; exists {
		t.Fatal("expected unused material to be pruned")
	}
}

func TestMediaAndInterfaces(t *testing.T) {
	parsed := readFiles(t, map[string]string{
		"scene.obj": `
medium fog 0.1 0.2
medium tinted 0.1 0.2 0.3 0 0 0
v 0 0 0
v 1 0 0
v 0 1 0
usemtl none
interface fog -
f 1 2 3
interface tinted fog
f 1 2 3
interface - -
f 1 2 3
`,
	})

	if len(parsed.Media) != 2 {
		t.Fatalf("expected 2 media; got %d", len(parsed.Media))
	}
	fog, tinted := parsed.Media["fog"], parsed.Media["tinted"]

	mesh := parsed.Meshes[0]
	mi := geometricAt(t, mesh, 0).MediumInterface()
	if mi == nil || mi.Inside != fog || mi.Outside != nil {
		t.Fatalf("expected fog/vacuum interface; got %+v", mi)
	}
	mi = geometricAt(t, mesh, 1).MediumInterface()
	if mi == nil || mi.Inside != tinted || mi.Outside != fog {
		t.Fatalf("expected tinted/fog interface; got %+v", mi)
	}
	if mi = geometricAt(t, mesh, 2).MediumInterface(); mi != nil {
		t.Fatalf("expected vacuum/vacuum to clear the interface; got %+v", mi)
	}

	// A unit length segment through fog attenuates by exp(-0.3)
	tr := fog.Tr(scene.NewRay(types.XYZ(0, 0, 0), types.XYZ(1, 0, 0)).WithTMax(1), nil)
	exp := float32(math.Exp(-0.3))
	if d := tr[0] - exp; d > 1e-5 || d < -1e-5 {
		t.Fatalf("expected fog transmittance %v; got %v", exp, tr[0])
	}
}

func TestSpheres(t *testing.T) {
	parsed := readFiles(t, map[string]string{
		"scene.obj": `
o balls
sphere 0 0 0 1
sphere 5 0 0 0.5
`,
	})

	mesh := parsed.Meshes[0]
	if len(mesh.Primitives) != 2 {
		t.Fatalf("expected 2 spheres; got %d", len(mesh.Primitives))
	}
	sphere, ok := shape.AsSphere(geometricAt(t, mesh, 1).Shape())
	if !ok {
		t.Fatal("expected a sphere shape")
	}
	if sphere.Center != types.XYZ(5, 0, 0) || sphere.Radius != 0.5 {
		t.Fatalf("expected sphere at (5, 0, 0) with radius 0.5; got %v, %v", sphere.Center, sphere.Radius)
	}
}

func TestMeshInstances(t *testing.T) {
	parsed := readFiles(t, map[string]string{
		"scene.obj": `
o tri
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
instance tri 10 0 0 0 0 0 1 1 1
instance tri 0 0 0 0 0 0 2 2 2
`,
	})

	if len(parsed.Instances) != 2 {
		t.Fatalf("expected 2 instances; got %d", len(parsed.Instances))
	}
	if parsed.Instances[0].Primitive() != parsed.Instances[1].Primitive() {
		t.Fatal("expected instances of the same mesh to share an acceleration structure")
	}

	bound := parsed.Instances[0].WorldBound()
	if d := bound.Min[0] - 10; d > 1e-4 || d < -1e-4 {
		t.Fatalf("expected translated instance bound to start at x=10; got %v", bound)
	}
	bound = parsed.Instances[1].WorldBound()
	if d := bound.Max[1] - 2; d > 1e-4 || d < -1e-4 {
		t.Fatalf("expected scaled instance bound to end at y=2; got %v", bound)
	}

	prims := parsed.Primitives()
	if len(prims) != 2 {
		t.Fatalf("expected instances to be the top-level primitives; got %d primitives", len(prims))
	}
	if prims[0].Kind() != scene.TransformedKind {
		t.Fatalf("expected a transformed primitive; got %s", prims[0].Kind())
	}
}

func TestCallUsesRelativeIndices(t *testing.T) {
	parsed := readFiles(t, map[string]string{
		"scene.obj": `
v 100 100 100
v 101 100 100
v 100 101 100
call meshes/part.obj
`,
		"meshes/part.obj": `
o part
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`,
	})

	if len(parsed.Meshes) != 1 {
		t.Fatalf("expected 1 mesh; got %d", len(parsed.Meshes))
	}
	tri, _ := shape.AsTriangle(geometricAt(t, parsed.Meshes[0], 0).Shape())
	if got := tri.Vertex(0); got != types.XYZ(0, 0, 0) {
		t.Fatalf("expected included face to reference the included vertices; got %v", got)
	}
}

func TestReadErrors(t *testing.T) {
	type spec struct {
		files  map[string]string
		expErr string
	}
	specs := []spec{
		{map[string]string{"scene.obj": "usemtl missing\n"}, `undefined material with name "missing"`},
		{map[string]string{"scene.obj": "interface fog -\n"}, `undefined medium with name "fog"`},
		{map[string]string{"scene.obj": "medium fog 1 1\nmedium fog 1 1\n"}, `medium "fog" already defined`},
		{map[string]string{"scene.obj": "medium fog 1\n"}, `unsupported syntax for "medium"`},
		{map[string]string{"scene.obj": "medium fog -1 1\n"}, "must be non-negative"},
		{map[string]string{"scene.obj": "v 0 0 0\nf 1 2 3\n"}, "index out of bounds"},
		{map[string]string{"scene.obj": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2\n"}, `unsupported syntax for "f"`},
		{map[string]string{"scene.obj": "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2/1 3\n"}, "expected each face argument to contain 1 indices"},
		{map[string]string{"scene.obj": "sphere 0 0 0 -1\n"}, "sphere radius must be positive"},
		{map[string]string{"scene.obj": "instance ghost 0 0 0 0 0 0 1 1 1\n"}, `unknown mesh with name "ghost"`},
		{map[string]string{"scene.obj": "o tri\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\ninstance tri 0 0 0 0 0 0 0 1 1\n"}, "not invertible"},
		{map[string]string{"scene.obj": "call missing.obj\n"}, "referenced from"},
		{map[string]string{"scene.obj": "mtllib lib.mtl\n", "lib.mtl": "Kd 1 1 1\n"}, `got "Kd" without a "newmtl"`},
		{map[string]string{"scene.obj": "mtllib lib.mtl\n", "lib.mtl": "newmtl a\ninclude b\n"}, `could not include unknown material "b"`},
		{map[string]string{"scene.obj": "call part.obj\n", "part.obj": "v 1 2\n"}, "part.obj: 1"},
	}

	for specIndex, s := range specs {
		dir := writeFiles(t, s.files)
		_, err := ReadFile(filepath.Join(dir, "scene.obj"))
		if err == nil {
			t.Fatalf("[spec %d] expected an error", specIndex)
		}
		if !strings.Contains(err.Error(), s.expErr) {
			t.Fatalf("[spec %d] expected error to contain %q; got %q", specIndex, s.expErr, err.Error())
		}
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("[spec %d] expected a *ParseError; got %T", specIndex, err)
		}
	}
}

func TestIncludedFileErrorCarriesStack(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"scene.obj": "\ncall part.obj\n",
		"part.obj":  "usemtl missing\n",
	})

	_, err := ReadFile(filepath.Join(dir, "scene.obj"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected a *ParseError; got %v", err)
	}
	if !strings.HasSuffix(parseErr.File, "part.obj") || parseErr.Line != 1 {
		t.Fatalf("expected error at part.obj:1; got %s:%d", parseErr.File, parseErr.Line)
	}
	if len(parseErr.Stack) != 1 || !strings.Contains(parseErr.Stack[0], "scene.obj:2 [call]") {
		t.Fatalf("expected a single stack frame pointing to scene.obj:2; got %v", parseErr.Stack)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	dir := writeFiles(t, map[string]string{"scene.ply": "ply\n"})
	_, err := ReadFile(filepath.Join(dir, "scene.ply"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat; got %v", err)
	}
}

func TestReadScene(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"scene.obj": `
v -1 -1 0
v 1 -1 0
v 0 1 0
f 1 2 3
`,
		"empty.obj": "v 0 0 0\n",
	})

	sc, err := ReadScene(filepath.Join(dir, "scene.obj"), nil)
	if err != nil {
		t.Fatal(err)
	}

	var isect scene.SurfaceInteraction
	ray := scene.NewRay(types.XYZ(0, 0, -5), types.XYZ(0, 0, 1))
	if !sc.Intersect(ray, &isect) {
		t.Fatal("expected ray to hit the triangle")
	}
	if d := isect.T - 5; d > 1e-4 || d < -1e-4 {
		t.Fatalf("expected hit distance 5; got %v", isect.T)
	}

	_, err = ReadScene(filepath.Join(dir, "empty.obj"), nil)
	if !errors.Is(err, ErrEmptyScene) {
		t.Fatalf("expected ErrEmptyScene; got %v", err)
	}
}
