package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/achilleasa/lumen/asset/reader"
	"github.com/achilleasa/lumen/scene/bvh"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Display scene info.
func ShowSceneInfo(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	parsed, err := reader.ReadFile(ctx.Args().First())
	if err != nil {
		return err
	}

	sc, err := reader.Build(parsed, bvhOptions(ctx))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset type", "Count", "Names"})
	table.Append([]string{"Meshes", fmt.Sprint(len(parsed.Meshes)), meshNames(parsed)})
	table.Append([]string{"Instances", fmt.Sprint(len(parsed.Instances)), ""})
	table.Append([]string{"Materials", fmt.Sprint(len(parsed.Materials)), strings.Join(sortedKeys(parsed.Materials), ", ")})
	table.Append([]string{"Media", fmt.Sprint(len(parsed.Media)), strings.Join(sortedKeys(parsed.Media), ", ")})
	table.Render()
	logger.Noticef("scene %s information:\n%s", sc.ID(), buf.String())

	if accel, ok := sc.Aggregate().(*bvh.Accel); ok {
		buf.Reset()
		accel.Stats().Table(&buf)
		logger.Noticef("bvh statistics:\n%s", buf.String())
	}

	return nil
}

// Get the bvh options selected by the command flags.
func bvhOptions(ctx *cli.Context) []bvh.Option {
	var opts []bvh.Option
	if ctx.IsSet("min-leaf-items") {
		opts = append(opts, bvh.WithMinLeafItems(ctx.Int("min-leaf-items")))
	}
	return opts
}

func meshNames(parsed *reader.Parsed) string {
	names := make([]string, 0, len(parsed.Meshes))
	for _, mesh := range parsed.Meshes {
		names = append(names, mesh.Name)
	}
	return strings.Join(names, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
