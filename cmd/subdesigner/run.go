package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caraudioevents/subdesigner/internal/logger"
	"github.com/caraudioevents/subdesigner/internal/mcptools"
	"github.com/caraudioevents/subdesigner/internal/server"
	"github.com/caraudioevents/subdesigner/internal/store"
	"github.com/caraudioevents/subdesigner/internal/telemetry"
	"github.com/caraudioevents/subdesigner/pkg/classify"
	"github.com/caraudioevents/subdesigner/pkg/design"
	"github.com/caraudioevents/subdesigner/pkg/spec"
	"github.com/caraudioevents/subdesigner/pkg/validation"
)

const serviceName = "subdesigner"

// errInvalid signals a validation failure already printed to the user.
var errInvalid = errors.New("design has validation errors")

// loadAndValidate loads the design and runs schema validation.
func loadAndValidate(projectPath string) (*spec.Design, *validation.Report, error) {
	d, err := spec.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading design: %w", err)
	}
	return d, validation.ValidateDesign(d), nil
}

// engine returns the classifier over --rules, or the built-in tables.
func (a *app) engine() (*classify.Engine, error) {
	if a.rulesDir == "" {
		return classify.Default(), nil
	}
	orgs, err := classify.LoadDir(a.rulesDir)
	if err != nil {
		return nil, fmt.Errorf("loading rule tables: %w", err)
	}
	return classify.NewEngine(orgs)
}

func (a *app) evaluate(projectPath string) (*spec.Design, *design.Evaluation, *validation.Report, error) {
	d, report, err := loadAndValidate(projectPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if !report.Valid {
		return d, nil, report, nil
	}
	engine, err := a.engine()
	if err != nil {
		return nil, nil, nil, err
	}

	start := time.Now()
	ev, advisories, err := design.Evaluate(d, engine)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("evaluating %s: %w", d.Name, err)
	}
	logger.LogDuration(a.log.WithComponent("design"), "evaluate", start, logger.Fields{"design": d.Name})
	report.Merge(advisories)
	return d, ev, report, nil
}

func (a *app) runValidate(projectPath string) error {
	_, _, report, err := a.evaluate(projectPath)
	if err != nil {
		return err
	}
	if a.jsonOut {
		if err := writeJSON(a.out, report); err != nil {
			return err
		}
	} else {
		printValidationReport(a.out, report)
	}
	if !report.Valid {
		return errInvalid
	}
	return nil
}

func (a *app) runDesign(projectPath string) error {
	d, ev, report, err := a.evaluate(projectPath)
	if err != nil {
		return err
	}
	if ev == nil {
		printValidationReport(a.out, report)
		return errInvalid
	}

	if a.jsonOut {
		return writeJSON(a.out, map[string]any{
			"design":     d,
			"evaluation": ev,
			"validation": report,
		})
	}
	printEvaluation(a.out, ev)
	fmt.Fprintln(a.out)
	printValidationReport(a.out, report)
	return nil
}

func (a *app) runRulesValidate(dir string) error {
	var (
		orgs []classify.Organization
		err  error
	)
	if dir == "" {
		orgs, err = classify.Builtin()
	} else {
		orgs, err = classify.LoadDir(dir)
	}
	if err != nil {
		return fmt.Errorf("loading rule tables: %w", err)
	}

	report := classify.ValidateTables(orgs)
	if a.jsonOut {
		if err := writeJSON(a.out, report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(a.out, "Checked %d organization(s)\n\n", len(orgs))
		printValidationReport(a.out, report)
	}
	if !report.Valid {
		return errors.New("rule tables are invalid")
	}
	return nil
}

func (a *app) runServe(ctx context.Context, projectPath string) error {
	engine, err := a.engine()
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Setup(ctx, serviceName, a.cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			a.log.WithError(err).Warn("telemetry shutdown")
		}
	}()

	st, err := store.Open(a.cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := server.New(projectPath, server.Options{
		Port:      a.cfg.Port,
		Engine:    engine,
		Store:     st,
		Metrics:   telemetry.NewMetrics(),
		Log:       a.log,
		RateLimit: a.cfg.RateLimit,
		RateBurst: a.cfg.RateBurst,
	})
	return srv.Start(ctx)
}

func (a *app) runMCP(ctx context.Context) error {
	engine, err := a.engine()
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Setup(ctx, serviceName+"-mcp", a.cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	return mcptools.Run(ctx, engine, a.log)
}
