// cpwroute — length-matched CPW waveguide routing for superconducting chips
//
// Builds composite waveguide paths from waypoint routes, solves meanders to
// exact target lengths, packs spirals into bounding outlines, places
// airbridges, and exports fabrication artifacts.
//
// Build:
//   go build -o cpwroute ./cmd/cpwroute
//
// Examples:
//   cpwroute -route feedline.json -report -dxf feedline.dxf -pdf feedline.pdf
//   cpwroute -import waypoints.csv -profile "Al standard" -save feedline.json
//   cpwroute -boundary chip.dxf -target 52000 -dxf resonator.dxf
//   cpwroute -backup lab-settings.json

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qdevlab/cpwroute/internal/bridge"
	"github.com/qdevlab/cpwroute/internal/component"
	"github.com/qdevlab/cpwroute/internal/export"
	"github.com/qdevlab/cpwroute/internal/importer"
	"github.com/qdevlab/cpwroute/internal/model"
	"github.com/qdevlab/cpwroute/internal/path"
	"github.com/qdevlab/cpwroute/internal/project"
	"github.com/qdevlab/cpwroute/internal/spiral"
)

func main() {
	routePath := flag.String("route", "", "Route definition file (JSON)")
	importPath := flag.String("import", "", "Waypoint table to import (.csv or .xlsx)")
	savePath := flag.String("save", "", "Write the route definition to this file")
	label := flag.String("label", "", "Label for a newly imported route")
	profileName := flag.String("profile", "", "Process profile to apply to the route settings")
	templateName := flag.String("template", "", "Create the route from a stored template")

	boundaryPath := flag.String("boundary", "", "Bounding outline DXF for spiral packing")
	target := flag.Float64("target", 0, "Target path length for spiral packing (um)")

	dxfOut := flag.String("dxf", "", "Export the built path as DXF")
	pdfOut := flag.String("pdf", "", "Export a layout and length report as PDF")
	labelsOut := flag.String("labels", "", "Export fabrication labels as PDF")
	bridges := flag.Bool("bridges", false, "Place airbridges at the configured pitch")
	report := flag.Bool("report", false, "Print the per-node length report")

	configPath := flag.String("config", project.DefaultConfigPath(), "Application config file")
	listProfiles := flag.Bool("list-profiles", false, "List available process profiles and exit")
	backupPath := flag.String("backup", "", "Export config, custom profiles and templates to this file and exit")
	restorePath := flag.String("restore", "", "Restore config, profiles and templates from a backup file and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "cpwroute — length-matched CPW waveguide routing\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [flags]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	config, err := project.LoadAppConfig(*configPath)
	if err != nil {
		fatalf("cannot load config: %v", err)
	}

	if *listProfiles {
		printProfiles()
		return
	}

	if *backupPath != "" || *restorePath != "" {
		templatesPath, err := project.DefaultTemplatePath()
		if err != nil {
			fatalf("cannot resolve template path: %v", err)
		}
		if *backupPath != "" {
			if err := runBackup(*backupPath, config, project.DefaultProfilesPath(), templatesPath); err != nil {
				fatalf("backup failed: %v", err)
			}
			fmt.Printf("Wrote %s\n", *backupPath)
		} else {
			if err := runRestore(*restorePath, *configPath, project.DefaultProfilesPath(), templatesPath); err != nil {
				fatalf("restore failed: %v", err)
			}
			fmt.Printf("Restored application data from %s\n", *restorePath)
		}
		return
	}

	settings := model.DefaultSettings()
	config.ApplyToSettings(&settings)
	if *profileName != "" {
		profile, err := findProfile(*profileName)
		if err != nil {
			fatalf("%v", err)
		}
		profile.ApplyToSettings(&settings)
	}

	if *boundaryPath != "" {
		runSpiral(*boundaryPath, *target, settings, *dxfOut)
		return
	}

	route, err := resolveRoute(*routePath, *importPath, *templateName, *label, settings)
	if err != nil {
		fatalf("%v", err)
	}

	if *savePath != "" {
		if err := project.SaveRoute(*savePath, route); err != nil {
			fatalf("cannot save route: %v", err)
		}
		fmt.Printf("Saved route %s to %s\n", route.ID, *savePath)
	}

	asm := path.Assembler{Factory: component.NewRegistry()}
	result, err := asm.Build(route)
	if err != nil {
		fatalf("build failed: %v", err)
	}

	poses := bridge.FromPlacements(result.Placements)
	if *bridges {
		auto, err := bridge.Place(result.Primitives, bridge.Spec{
			Mode:      bridge.ModePitch,
			Pitch:     settings.BridgePitch,
			Clearance: settings.BridgeClearance,
		})
		if err != nil {
			fatalf("bridge placement failed: %v", err)
		}
		poses = append(poses, auto...)
	}

	if *report {
		printReport(route, result, poses)
	}

	if *dxfOut != "" {
		if err := export.WriteDXF(*dxfOut, result.Primitives, poses); err != nil {
			fatalf("DXF export failed: %v", err)
		}
		fmt.Printf("Wrote %s\n", *dxfOut)
	}
	if *pdfOut != "" {
		if err := export.ExportPDF(*pdfOut, route, result, poses); err != nil {
			fatalf("PDF export failed: %v", err)
		}
		fmt.Printf("Wrote %s\n", *pdfOut)
	}
	if *labelsOut != "" {
		if err := export.ExportLabels(*labelsOut, []model.Route{route}, []*path.Result{result}); err != nil {
			fatalf("label export failed: %v", err)
		}
		fmt.Printf("Wrote %s\n", *labelsOut)
	}

	if *routePath != "" {
		project.AddRecentRoute(&config, *routePath, 10)
		if err := project.SaveAppConfig(*configPath, config); err != nil {
			fmt.Fprintf(os.Stderr, "warning: cannot update config: %v\n", err)
		}
	}
}

// resolveRoute obtains the route to build from whichever source flag is set.
func resolveRoute(routePath, importPath, templateName, label string, settings model.RouteSettings) (model.Route, error) {
	switch {
	case routePath != "":
		return project.LoadRoute(routePath)

	case importPath != "":
		var result importer.ImportResult
		switch strings.ToLower(filepath.Ext(importPath)) {
		case ".xlsx":
			result = importer.ImportExcel(importPath)
		default:
			result = importer.ImportCSV(importPath)
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		if len(result.Errors) > 0 {
			return model.Route{}, fmt.Errorf("import failed: %s", strings.Join(result.Errors, "; "))
		}
		if label == "" {
			label = strings.TrimSuffix(filepath.Base(importPath), filepath.Ext(importPath))
		}
		route := model.NewRoute(label, result.Nodes...)
		route.Settings = settings
		return route, nil

	case templateName != "":
		store, err := project.LoadDefaultTemplates()
		if err != nil {
			return model.Route{}, fmt.Errorf("cannot load templates: %w", err)
		}
		tpl := store.FindByName(templateName)
		if tpl == nil {
			return model.Route{}, fmt.Errorf("no template named %q", templateName)
		}
		if label == "" {
			label = templateName
		}
		return tpl.ToRoute(label), nil

	default:
		return model.Route{}, fmt.Errorf("no route source: use -route, -import or -template")
	}
}

// runSpiral packs a spiral of the target length into the largest closed
// outline of the boundary DXF and optionally exports the result.
func runSpiral(boundaryPath string, target float64, settings model.RouteSettings, dxfOut string) {
	if target <= 0 {
		fatalf("spiral packing needs a positive -target length")
	}

	boundary := importer.ImportBoundaryDXF(boundaryPath)
	for _, w := range boundary.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if len(boundary.Errors) > 0 {
		fatalf("boundary import failed: %s", strings.Join(boundary.Errors, "; "))
	}

	spacing, prims, err := spiral.AutoSpacing(boundary.Polygons[0], target, settings)
	if err != nil {
		fatalf("spiral search failed: %v", err)
	}

	fmt.Printf("Spacing:     %.3f um\n", spacing)
	fmt.Printf("Path length: %.3f um\n", model.PathLength(prims))

	if dxfOut != "" {
		if err := export.WriteDXF(dxfOut, prims, nil); err != nil {
			fatalf("DXF export failed: %v", err)
		}
		fmt.Printf("Wrote %s\n", dxfOut)
	}
}

// printReport prints the per-node finalized lengths and placement summary.
func printReport(route model.Route, result *path.Result, poses []bridge.Pose) {
	fmt.Printf("Route %s (%s)\n", route.ID, route.Label)
	fmt.Printf("%-6s %-24s %-12s %12s %12s\n", "Node", "Position", "Component", "Length", "Cumulative")

	cumulative := 0.0
	for i, n := range route.Nodes {
		cumulative += result.NodeLengths[i]
		comp := ""
		if n.Component != model.KindNone {
			comp = n.Component.String()
		}
		pos := fmt.Sprintf("(%.1f, %.1f)", n.Position.X, n.Position.Y)
		fmt.Printf("%-6d %-24s %-12s %12.3f %12.3f\n", i, pos, comp, result.NodeLengths[i], cumulative)
	}
	fmt.Printf("Total length: %.3f um\n", result.TotalLength)
	fmt.Printf("Airbridges:   %d\n", len(poses))
}

// runBackup bundles the app config, the custom profiles and the stored
// templates into a single backup file.
func runBackup(out string, config model.AppConfig, profilesPath, templatesPath string) error {
	profiles, err := project.LoadCustomProfiles(profilesPath)
	if err != nil {
		return fmt.Errorf("cannot load custom profiles: %w", err)
	}
	store, err := project.LoadTemplates(templatesPath)
	if err != nil {
		return fmt.Errorf("cannot load templates: %w", err)
	}
	return project.ExportAllData(out, config, profiles, store.Templates)
}

// runRestore applies a backup file: the config always, profiles and
// templates only when the backup carries any.
func runRestore(in, configPath, profilesPath, templatesPath string) error {
	backup, err := project.ImportAllData(in)
	if err != nil {
		return err
	}
	if err := project.SaveAppConfig(configPath, backup.Config); err != nil {
		return fmt.Errorf("cannot save config: %w", err)
	}
	if len(backup.Profiles) > 0 {
		if err := project.SaveCustomProfiles(profilesPath, backup.Profiles); err != nil {
			return fmt.Errorf("cannot save profiles: %w", err)
		}
	}
	if len(backup.Templates) > 0 {
		store := model.TemplateStore{Templates: backup.Templates}
		if err := project.SaveTemplates(templatesPath, store); err != nil {
			return fmt.Errorf("cannot save templates: %w", err)
		}
	}
	return nil
}

func printProfiles() {
	custom, err := project.LoadCustomProfiles(project.DefaultProfilesPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: cannot load custom profiles: %v\n", err)
	}

	fmt.Println("Built-in profiles:")
	for _, p := range model.ProcessProfiles {
		fmt.Printf("  %-16s trace %g/%g um, radius %g um  (%s)\n",
			p.Name, p.TraceWidth, p.GapWidth, p.TurnRadius, p.Description)
	}
	if len(custom) > 0 {
		fmt.Println("Custom profiles:")
		for _, p := range custom {
			fmt.Printf("  %-16s trace %g/%g um, radius %g um\n",
				p.Name, p.TraceWidth, p.GapWidth, p.TurnRadius)
		}
	}
}

// findProfile looks the name up among built-ins first, then custom profiles.
func findProfile(name string) (model.ProcessProfile, error) {
	if p := model.FindProcessProfile(name); p != nil {
		return *p, nil
	}
	custom, err := project.LoadCustomProfiles(project.DefaultProfilesPath())
	if err != nil {
		return model.ProcessProfile{}, fmt.Errorf("cannot load custom profiles: %w", err)
	}
	for _, p := range custom {
		if p.Name == name {
			return p, nil
		}
	}
	return model.ProcessProfile{}, fmt.Errorf("no process profile named %q", name)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "cpwroute: "+format+"\n", args...)
	os.Exit(1)
}
