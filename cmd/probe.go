package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/achilleasa/lumen/asset/reader"
	"github.com/achilleasa/lumen/scene/diag"
	"github.com/achilleasa/lumen/types"
	"github.com/olekukonko/tablewriter"
	"github.com/segmentio/encoding/json"
	"github.com/urfave/cli"
)

// Probe the bound of a scene aggregate from its polygon vertices.
func ProbeScene(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	format := ctx.String("format")
	if format != "table" && format != "json" {
		return fmt.Errorf("unsupported output format %q", format)
	}

	axis, err := parseAxis(ctx.String("axis"))
	if err != nil {
		return err
	}

	sc, err := reader.ReadScene(ctx.Args().First(), bvhOptions(ctx))
	if err != nil {
		return err
	}

	opts := []diag.Option{diag.WithAxis(axis)}
	if ctx.Bool("all-vertices") {
		opts = append(opts, diag.WithAllVertices())
	}
	if ctx.IsSet("epsilon") {
		opts = append(opts, diag.WithEpsilon(float32(ctx.Float64("epsilon"))))
	}
	report := diag.Probe(sc.Aggregate(), opts...)

	switch format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))
	default:
		displayProbeReport(report, ctx.Bool("show-all"))
	}

	if !report.OK() {
		return cli.NewExitError(
			fmt.Sprintf("probe failed: %d probes without crossing, %d off bound", report.NotFound, report.OffBound),
			1,
		)
	}
	return nil
}

func displayProbeReport(report diag.Report, showAll bool) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Leaf", "Vertex", "Origin", "t", "Crossing", "Distance", "Status"})
	for _, res := range report.Results {
		status := "ok"
		switch {
		case !res.Found:
			status = "no crossing"
		case !res.OnBound:
			status = "off bound"
		}
		if status == "ok" && !showAll {
			continue
		}

		table.Append([]string{
			fmt.Sprint(res.PrimitiveIndex),
			fmt.Sprint(res.Vertex),
			fmtVec3(res.Origin),
			fmt.Sprintf("%g", res.T),
			fmtVec3(res.Crossing),
			fmt.Sprintf("%g", res.Distance),
			status,
		})
	}
	table.SetFooter([]string{"", "", "", "", "", "FAILED", fmt.Sprint(report.NotFound + report.OffBound)})
	table.Render()
	logger.Noticef("probe results for bound %s - %s along %s:\n%s", fmtVec3(report.Bound.Min), fmtVec3(report.Bound.Max), fmtVec3(report.Axis), buf.String())

	if len(report.SkippedByKind) != 0 || len(report.SkippedByShape) != 0 {
		buf.Reset()
		table = tablewriter.NewWriter(&buf)
		table.SetAutoFormatHeaders(false)
		table.SetHeader([]string{"Skipped leaf", "Count"})
		for _, kind := range sortedKeys(report.SkippedByKind) {
			table.Append([]string{kind + " primitive", fmt.Sprint(report.SkippedByKind[kind])})
		}
		for _, kind := range sortedKeys(report.SkippedByShape) {
			table.Append([]string{kind + " shape", fmt.Sprint(report.SkippedByShape[kind])})
		}
		table.Render()
		logger.Noticef("skipped %d leaves that cannot be probed:\n%s", report.Leaves-len(uniqueLeaves(report.Results)), buf.String())
	}
}

// Parse an axis specified as "x,y,z" or as one of the axis names.
func parseAxis(spec string) (types.Vec3, error) {
	switch strings.ToLower(spec) {
	case "x", "+x":
		return types.XYZ(1, 0, 0), nil
	case "y", "+y":
		return types.XYZ(0, 1, 0), nil
	case "z", "+z":
		return types.XYZ(0, 0, 1), nil
	case "-x":
		return types.XYZ(-1, 0, 0), nil
	case "-y":
		return types.XYZ(0, -1, 0), nil
	case "-z":
		return types.XYZ(0, 0, -1), nil
	}

	tokens := strings.Split(spec, ",")
	if len(tokens) != 3 {
		return types.Vec3{}, fmt.Errorf("invalid axis %q; expected x, y, z or a comma separated vector", spec)
	}
	var axis types.Vec3
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(strings.TrimSpace(tok), 32)
		if err != nil {
			return types.Vec3{}, fmt.Errorf("invalid axis %q: %w", spec, err)
		}
		axis[i] = float32(v)
	}
	if axis.IsZero() {
		return types.Vec3{}, fmt.Errorf("invalid axis %q; axis must not be zero", spec)
	}
	return axis, nil
}

func uniqueLeaves(results []diag.ProbeResult) map[int]struct{} {
	leaves := make(map[int]struct{})
	for _, res := range results {
		leaves[res.PrimitiveIndex] = struct{}{}
	}
	return leaves
}

func fmtVec3(v types.Vec3) string {
	return fmt.Sprintf("(%g, %g, %g)", v[0], v[1], v[2])
}
