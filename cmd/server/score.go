package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yachaflex/yachaflex-api/internal/config"
	"github.com/yachaflex/yachaflex-api/internal/domain"
	"github.com/yachaflex/yachaflex-api/internal/domain/stress"
	"github.com/yachaflex/yachaflex-api/internal/service"
)

// scoreOutput is printed by the score command.
type scoreOutput struct {
	CheckinScore   float64  `json:"checkin_score"`
	BiometricScore *float64 `json:"biometric_score,omitempty"`
	StressScore    float64  `json:"stress_score"`
	StressLevel    string   `json:"stress_level"`
	Message        string   `json:"message"`
}

func newScoreCmd(configPath *string) *cobra.Command {
	var (
		checkin                  domain.CheckinInput
		heartRate, hrv, activity float64
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a check-in offline and print the assessment as JSON",
		Long: `Score a check-in, optionally blended with biometric signals, without
touching the database.

Scoring parameters come from the scoring section of the config file when
--config or $` + config.ConfigFileEnv + ` is set, and from the built-in
defaults otherwise.

Examples:
  yachaflex-api score --wellbeing 2 --sleep 3 --focus 2
  yachaflex-api score --wellbeing 2 --sleep 3 --focus 2 --heart-rate 95 --activity 1200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scorer, err := scorerFor(*configPath)
			if err != nil {
				return err
			}

			var biometrics *domain.BiometricInput
			flags := cmd.Flags()
			if flags.Changed("heart-rate") || flags.Changed("hrv") || flags.Changed("activity") {
				biometrics = &domain.BiometricInput{}
				if flags.Changed("heart-rate") {
					biometrics.HeartRate = &heartRate
				}
				if flags.Changed("hrv") {
					biometrics.HRV = &hrv
				}
				if flags.Changed("activity") {
					biometrics.Activity = &activity
				}
			}

			out, err := score(scorer, checkin, biometrics)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().Float64Var(&checkin.Wellbeing, "wellbeing", 0, "wellbeing rating")
	cmd.Flags().Float64Var(&checkin.Sleep, "sleep", 0, "sleep quality rating")
	cmd.Flags().Float64Var(&checkin.Focus, "focus", 0, "focus rating")
	cmd.Flags().Float64Var(&heartRate, "heart-rate", 0, "heart rate in beats per minute")
	cmd.Flags().Float64Var(&hrv, "hrv", 0, "heart-rate variability in milliseconds")
	cmd.Flags().Float64Var(&activity, "activity", 0, "activity in steps")
	for _, name := range []string{"wellbeing", "sleep", "focus"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

// scorerFor builds a scorer from the config file's scoring section, or the
// default scorer when no config file is named.
func scorerFor(configPath string) (stress.Scorer, error) {
	path := resolveConfigPath(configPath)
	if path == "" {
		return stress.NewDefaultScorer(), nil
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return stress.NewScorer(scoringParams(cfg.Scoring))
}

func score(scorer stress.Scorer, checkin domain.CheckinInput, biometrics *domain.BiometricInput) (scoreOutput, error) {
	checkinScore, err := scorer.ScoreCheckin(checkin)
	if err != nil {
		return scoreOutput{}, err
	}

	out := scoreOutput{CheckinScore: checkinScore}
	if biometrics != nil {
		biometricScore, ok, err := scorer.ScoreBiometrics(*biometrics)
		if err != nil {
			return scoreOutput{}, err
		}
		if ok {
			out.BiometricScore = &biometricScore
		}
	}

	assessment, err := scorer.Calculate(checkin, biometrics)
	if err != nil {
		return scoreOutput{}, err
	}
	out.StressScore = assessment.Score
	out.StressLevel = assessment.Level.String()
	out.Message = service.LevelMessage(assessment.Level)
	return out, nil
}

// scoringParams maps the scoring config section onto scorer parameters.
func scoringParams(cfg config.ScoringConfig) *stress.Params {
	return stress.NewParams(stress.ParamsConfig{
		CheckinScaleMin: &cfg.CheckinScaleMin,
		CheckinScaleMax: &cfg.CheckinScaleMax,
		LowThreshold:    &cfg.LowThreshold,
		MediumThreshold: &cfg.MediumThreshold,
		IncludeHRV:      cfg.IncludeHRV,
	})
}
