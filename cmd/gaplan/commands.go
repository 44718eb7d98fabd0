package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/etsimport"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/export"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/generator"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/infrastructure/config"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/infrastructure/influxdb"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/infrastructure/logging"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/infrastructure/mqtt"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/plancache"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/planner"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/project"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/templateshell"
)

const (
	projectFilePermissions = 0o644
	outputDirPermissions   = 0o750
	defaultFileBase        = "knx_project"
)

var (
	errMQTTDisabled  = errors.New("mqtt is disabled in the configuration")
	errCacheDisabled = errors.New("the plan cache is disabled in the configuration")
	errInvalidMode   = errors.New("invalid structure mode")
	errPlanMismatch  = errors.New("ETS file does not match the plan")
)

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]`)

// app carries what every command needs.
type app struct {
	cfg *config.Config
	log *logging.Logger
	out io.Writer
}

// newService builds a planner with the collaborators the configuration
// enables. cleanup closes them in reverse order and is never nil.
//
// Parameters:
//   - ctx: Context for opening the cache
//   - withPublisher: Connect to MQTT and attach a plan publisher
//
// Returns:
//   - *planner.Service: Ready to use service
//   - func(): Releases cache, metrics and broker connections
//   - error: If an enabled collaborator cannot be reached
func (a *app) newService(ctx context.Context, withPublisher bool) (*planner.Service, func(), error) {
	svc := planner.NewService()
	svc.SetLogger(a.log)

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if a.cfg.Cache.Enabled {
		store, err := plancache.Open(ctx, a.cfg.Database)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("opening plan cache: %w", err)
		}
		closers = append(closers, func() {
			if closeErr := store.Close(); closeErr != nil {
				a.log.Error("error closing plan cache", "error", closeErr)
			}
		})
		svc.SetCache(store, a.cfg.Cache.Keep)
		a.log.Debug("plan cache opened", "path", a.cfg.Database.Path)
	}

	if a.cfg.InfluxDB.Enabled {
		influxClient, err := influxdb.Connect(a.cfg.InfluxDB, a.cfg.Site.ID)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		influxClient.SetOnError(func(err error) {
			a.log.Error("InfluxDB write error", "error", err)
		})
		closers = append(closers, func() {
			if closeErr := influxClient.Close(); closeErr != nil {
				a.log.Error("error closing InfluxDB", "error", closeErr)
			}
		})
		svc.SetMetrics(influxClient)
		a.log.Debug("InfluxDB connected", "url", a.cfg.InfluxDB.URL, "bucket", a.cfg.InfluxDB.Bucket)
	}

	if withPublisher {
		if !a.cfg.MQTT.Enabled {
			cleanup()
			return nil, func() {}, errMQTTDisabled
		}
		mqttClient, err := mqtt.Connect(a.cfg.MQTT, a.cfg.Site.ID)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("connecting to MQTT: %w", err)
		}
		mqttClient.SetLogger(a.log)
		closers = append(closers, func() {
			if closeErr := mqttClient.Close(); closeErr != nil {
				a.log.Error("error closing MQTT", "error", closeErr)
			}
		})
		svc.SetPublisher(mqtt.NewClientPlanPublisher(mqttClient))
		a.log.Debug("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", a.cfg.MQTT.Broker.Host, a.cfg.MQTT.Broker.Port),
			"client_id", a.cfg.MQTT.Broker.ClientID,
		)
	}

	return svc, cleanup, nil
}

func cmdNew(_ context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	tpl := fs.String("template", "residential", "built-in template: "+strings.Join(project.TemplateNames(), ", "))
	name := fs.String("name", "", "project name (default: the template's name)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := projectArg(fs)
	if err != nil {
		return err
	}

	format, err := project.FormatFromPath(path)
	if err != nil {
		return err
	}

	model, err := project.FromTemplate(*tpl, nil)
	if err != nil {
		return err
	}
	if *name != "" {
		model.Name = *name
	}

	data, err := project.Marshal(model, format)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, projectFilePermissions) //nolint:gosec // path is supplied by the operator
	if err != nil {
		return fmt.Errorf("creating project file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("writing project file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing project file: %w", err)
	}

	a.log.Info("project created", "path", path, "template", *tpl)
	fmt.Fprintf(a.out, "Created %s from template %q\n", path, *tpl)
	return nil
}

func cmdGenerate(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	mode := fs.String("mode", a.cfg.Generator.Mode, "structure mode: building, function or device (default: the project's)")
	format := fs.String("format", a.cfg.Export.Format, "output format: csv, xml, table or json")
	output := fs.String("o", "", "output file, - for stdout (default: stdout for table and json, export.output_dir otherwise)")
	publish := fs.Bool("publish", false, "also publish the plan over MQTT")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := projectArg(fs)
	if err != nil {
		return err
	}

	f, err := export.ParseFormat(*format)
	if err != nil {
		return err
	}
	reqMode, err := parseMode(*mode)
	if err != nil {
		return err
	}

	model, err := project.Load(path)
	if err != nil {
		return err
	}

	svc, cleanup, err := a.newService(ctx, *publish)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.Plan(ctx, model, planner.Request{
		Mode:         reqMode,
		NameTemplate: a.cfg.Generator.NameTemplate,
		Validate:     f == export.FormatCSV || f == export.FormatXML,
		Publish:      *publish,
	})
	if err != nil {
		return fmt.Errorf("generating plan: %w", err)
	}

	dest := *output
	if dest == "" && (f == export.FormatCSV || f == export.FormatXML) {
		dest = filepath.Join(a.cfg.Export.OutputDir, fileBase(res.Project)+f.Extension())
	}
	if err := writePlan(a.out, dest, f, res.Project, res.Rows); err != nil {
		return err
	}

	a.log.Info("plan generated",
		"project", res.Project,
		"mode", res.Mode,
		"format", f,
		"addresses", res.Stats.Addresses,
		"cache_hit", res.CacheHit,
		"output", displayDest(dest),
	)
	if dest != "" && dest != "-" {
		fmt.Fprintf(a.out, "Wrote %d group addresses to %s\n", res.Stats.Addresses, dest)
	}
	return nil
}

func cmdValidate(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := projectArg(fs)
	if err != nil {
		return err
	}

	model, err := project.Load(path)
	if err != nil {
		return err
	}

	if err := project.ValidateForExport(ctx, model); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s: ready for export\n", model.Name)
	return nil
}

func cmdTemplate(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("template", flag.ContinueOnError)
	preview := fs.Int("preview", 0, "number of addresses shown by show (default 8)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := projectArg(fs)
	if err != nil {
		return err
	}

	format, err := project.FormatFromPath(path)
	if err != nil {
		return err
	}
	model, err := project.Load(path)
	if err != nil {
		return err
	}

	shell := templateshell.New(model, func(m *project.BuildingModel) error {
		data, err := project.Marshal(m, format)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, projectFilePermissions); err != nil {
			return fmt.Errorf("writing project file: %w", err)
		}
		a.log.Info("name template saved", "path", path, "template", m.ViewOptions.NameTemplate)
		return nil
	})
	if *preview > 0 {
		shell.SetPreview(*preview)
	}

	return shell.Run(ctx)
}

func cmdPublish(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	mode := fs.String("mode", a.cfg.Generator.Mode, "structure mode: building, function or device (default: the project's)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := projectArg(fs)
	if err != nil {
		return err
	}

	reqMode, err := parseMode(*mode)
	if err != nil {
		return err
	}
	model, err := project.Load(path)
	if err != nil {
		return err
	}

	svc, cleanup, err := a.newService(ctx, true)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.Plan(ctx, model, planner.Request{
		Mode:         reqMode,
		NameTemplate: a.cfg.Generator.NameTemplate,
		Validate:     true,
		Publish:      true,
	})
	if err != nil {
		return fmt.Errorf("publishing plan: %w", err)
	}

	fmt.Fprintf(a.out, "Published %d group addresses of %s (key %s)\n", res.Stats.Addresses, res.Project, shortKey(res.Key))
	return nil
}

func cmdCheck(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	mode := fs.String("mode", a.cfg.Generator.Mode, "structure mode: building, function or device (default: the project's)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: check needs a project file and an ETS file", errUsage)
	}
	path, etsPath := fs.Arg(0), fs.Arg(1)

	reqMode, err := parseMode(*mode)
	if err != nil {
		return err
	}
	model, err := project.Load(path)
	if err != nil {
		return err
	}
	imported, err := etsimport.ParseFile(etsPath)
	if err != nil {
		return err
	}

	svc, cleanup, err := a.newService(ctx, false)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := svc.Plan(ctx, model, planner.Request{Mode: reqMode, NameTemplate: a.cfg.Generator.NameTemplate})
	if err != nil {
		return fmt.Errorf("generating plan: %w", err)
	}

	report, err := etsimport.Compare(res.Rows, imported.Addresses)
	if err != nil {
		return err
	}

	for _, w := range imported.Warnings {
		fmt.Fprintf(a.out, "warning   %s\n", w)
	}
	for _, d := range report.Differences {
		fmt.Fprintln(a.out, d)
	}
	fmt.Fprintf(a.out, "%s (%s): %d of %d addresses match, %d differences\n",
		imported.SourceFile, imported.Format, report.Matched, res.Stats.Addresses, len(report.Differences))

	a.log.Info("ETS file checked",
		"project", res.Project,
		"file", imported.SourceFile,
		"matched", report.Matched,
		"differences", len(report.Differences),
	)
	if !report.OK() {
		return errPlanMismatch
	}
	return nil
}

func cmdCache(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("cache", flag.ContinueOnError)
	keep := fs.Int("keep", a.cfg.Cache.Keep, "entries kept by prune")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: cache needs list or prune", errUsage)
	}
	if !a.cfg.Cache.Enabled {
		return errCacheDisabled
	}

	store, err := plancache.Open(ctx, a.cfg.Database)
	if err != nil {
		return fmt.Errorf("opening plan cache: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			a.log.Error("error closing plan cache", "error", closeErr)
		}
	}()

	switch fs.Arg(0) {
	case "list":
		entries, err := store.List(ctx)
		if err != nil {
			return err
		}
		return printEntries(a.out, entries)
	case "prune":
		removed, err := store.Prune(ctx, *keep)
		if err != nil {
			return err
		}
		a.log.Info("plan cache pruned", "removed", removed, "keep", *keep)
		fmt.Fprintf(a.out, "Removed %d cached plans\n", removed)
		return nil
	default:
		return fmt.Errorf("%w: unknown cache action %q", errUsage, fs.Arg(0))
	}
}

func printEntries(w io.Writer, entries []plancache.Entry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tPROJECT\tMODE\tROWS\tLAST USED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			shortKey(e.Key), e.ProjectName, e.Mode, e.RowCount, e.LastUsedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

// writePlan renders rows into a buffer first so a failing export never
// leaves a partial file behind. An empty dest or "-" means w.
func writePlan(w io.Writer, dest string, f export.Format, projectName string, rows []generator.Row) error {
	var buf bytes.Buffer
	if err := export.Write(&buf, f, projectName, rows); err != nil {
		return fmt.Errorf("exporting %s: %w", f, err)
	}

	if dest == "" || dest == "-" {
		_, err := w.Write(buf.Bytes())
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), outputDirPermissions); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(dest, buf.Bytes(), projectFilePermissions); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}

func projectArg(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%w: %s needs exactly one project file", errUsage, fs.Name())
	}
	return fs.Arg(0), nil
}

// parseMode accepts an empty string, which keeps the project's mode.
func parseMode(s string) (project.StructureMode, error) {
	if s == "" {
		return "", nil
	}
	for _, m := range project.ValidStructureModes() {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", errInvalidMode, s)
}

// fileBase derives an export file name from the project name.
func fileBase(projectName string) string {
	base := unsafeFileChars.ReplaceAllString(strings.ToLower(projectName), "_")
	if base == "" {
		return defaultFileBase
	}
	return base
}

func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}

func displayDest(dest string) string {
	if dest == "" || dest == "-" {
		return "stdout"
	}
	return dest
}
