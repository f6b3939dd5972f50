package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/needl-go/netseek/internal/instance"
	"github.com/needl-go/netseek/internal/loader"
	"github.com/needl-go/netseek/internal/logging"
	"github.com/needl-go/netseek/internal/output"
	"github.com/needl-go/netseek/internal/scoremodel"
)

// foldPurposeValue maps --fold-purpose onto loader's DataPurpose enum.
func foldPurposeValue() (loader.DataPurpose, error) {
	switch strings.ToLower(foldPurpose) {
	case "training", "":
		return loader.Training, nil
	case "validation":
		return loader.Validation, nil
	default:
		return 0, fmt.Errorf("netseek: --fold-purpose must be training or validation, got %q", foldPurpose)
	}
}

// loadCovariates installs --covariates-file onto in, if set.
func loadCovariates[P instance.Phenotype](in *instance.Instance[P]) error {
	if covariatesFile == "" {
		return nil
	}
	if _, err := loader.LoadCovariatesInto(in, covariatesFile, covariatesLabelColumn); err != nil {
		return fmt.Errorf("netseek: loading covariates: %w", err)
	}
	return nil
}

func quantitativeModel(in *instance.Instance[float64]) (scoremodel.Evaluator, error) {
	switch strings.ToUpper(scoreModel) {
	case "VARIANCE":
		m := scoremodel.NewVarianceModel(in)
		if scoreSubScore != "" {
			if err := m.SetOptions(scoreSubScore); err != nil {
				return nil, err
			}
		}
		return m, nil
	case "REGRESSION":
		m := scoremodel.NewRegressionModel(in)
		if scoreSubScore != "" {
			if err := m.SetOptions(scoreSubScore); err != nil {
				return nil, err
			}
		}
		return m, nil
	default:
		return nil, fmt.Errorf("netseek: --score-model %q requires a categorical phenotype (use --num-categories > 0)", scoreModel)
	}
}

func categoricalModel(in *instance.Instance[int]) (scoremodel.Evaluator, error) {
	switch strings.ToUpper(scoreModel) {
	case "BAYESIAN":
		m := scoremodel.NewBayesianModel(in)
		if scoreSubScore != "" {
			if err := m.SetOptions(scoreSubScore); err != nil {
				return nil, err
			}
		}
		return m, nil
	case "PENETRANCE":
		m := scoremodel.NewPenetranceModel(in)
		if scoreSubScore != "" {
			if err := m.SetOptions(scoreSubScore); err != nil {
				return nil, err
			}
		}
		return m, nil
	default:
		return nil, fmt.Errorf("netseek: --score-model %q requires --num-categories 0 (quantitative)", scoreModel)
	}
}

// runQuantitative is the runSearch dispatch target for --num-categories 0:
// load the cohort as a quantitative instance, build the network(s), search,
// and write results.
func runQuantitative(ctx context.Context, logger *slog.Logger) error {
	format, err := loader.ParseInputFormat(inputFormat)
	if err != nil {
		return err
	}
	purpose, err := foldPurposeValue()
	if err != nil {
		return err
	}

	in, err := loader.LoadQuantitative(inputPath, format, numFolds, foldID, purpose)
	if err != nil {
		return fmt.Errorf("netseek: loading cohort: %w", err)
	}
	if err := loadCovariates(in); err != nil {
		return err
	}

	reg, err := buildRegistry(in)
	if err != nil {
		return err
	}
	if err := applyAnnotations(reg); err != nil {
		return err
	}

	model, err := quantitativeModel(in)
	if err != nil {
		return err
	}

	rp, err := resolveRunParams()
	if err != nil {
		return err
	}
	g, results, err := runAggregatedSearch(ctx, logger, reg, model, rp)
	if err != nil {
		return err
	}

	resultsOut, err := openOutputFile("results.csv")
	if err != nil {
		return err
	}
	defer resultsOut.Close()
	opts := output.ResultOptions{Scores: []output.ScoreColumn{{Name: strings.ToUpper(scoreModel), Model: model}}, RankBy: strings.ToUpper(scoreModel)}
	if err := output.WriteResultCSVQuantitative(resultsOut, reg, results, opts); err != nil {
		return fmt.Errorf("netseek: writing results: %w", err)
	}
	logging.Success(logger, "results written", "path", filepath.Join(outputDirectory, "results.csv"), "count", len(results))

	return writeNetworkOutputs(ctx, logger, g, reg)
}

// runCategorical mirrors runQuantitative for --num-categories > 0.
func runCategorical(ctx context.Context, logger *slog.Logger) error {
	format, err := loader.ParseInputFormat(inputFormat)
	if err != nil {
		return err
	}
	purpose, err := foldPurposeValue()
	if err != nil {
		return err
	}

	in, err := loader.LoadCategorical(inputPath, format, numCategories, numFolds, foldID, purpose)
	if err != nil {
		return fmt.Errorf("netseek: loading cohort: %w", err)
	}
	if err := loadCovariates(in); err != nil {
		return err
	}

	reg, err := buildRegistry(in)
	if err != nil {
		return err
	}
	if err := applyAnnotations(reg); err != nil {
		return err
	}

	model, err := categoricalModel(in)
	if err != nil {
		return err
	}

	rp, err := resolveRunParams()
	if err != nil {
		return err
	}
	g, results, err := runAggregatedSearch(ctx, logger, reg, model, rp)
	if err != nil {
		return err
	}

	resultsOut, err := openOutputFile("results.csv")
	if err != nil {
		return err
	}
	defer resultsOut.Close()
	opts := output.ResultOptions{Scores: []output.ScoreColumn{{Name: strings.ToUpper(scoreModel), Model: model}}, RankBy: strings.ToUpper(scoreModel)}
	if err := output.WriteResultCSVCategorical(resultsOut, in, reg, results, opts); err != nil {
		return fmt.Errorf("netseek: writing results: %w", err)
	}
	logging.Success(logger, "results written", "path", filepath.Join(outputDirectory, "results.csv"), "count", len(results))

	return writeNetworkOutputs(ctx, logger, g, reg)
}
