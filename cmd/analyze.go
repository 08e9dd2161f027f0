package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/raflytch/resume-analyzer/internal/domain"
	"github.com/raflytch/resume-analyzer/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Upload a resume and print the analysis",
	Long:  "Validates FILE, submits it to the analysis endpoint, stores the result and prints a summary.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var analyzeJSON bool

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the raw analysis document")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	file, err := domain.NewSelectedFileFromPath(args[0])
	if err != nil {
		return err
	}

	store, closeStore, err := newResultStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	session := service.NewSession(ctx, uuid.New(), newSessionDeps(cfg, service.NewResultBridge(store, cfg.Storage.Key)),
		service.WithAutoSubmit(true),
		service.WithNotificationTTL(0),
	)
	defer session.Close()

	outcome, err := session.Select(file)
	if err != nil {
		return err
	}
	if outcome.Rejected() {
		return errors.New(outcome.Reason)
	}

	log.Printf("Analyzing %s (%s)...", file.Name, file.MediaType)
	state, err := session.Wait(ctx)
	if err != nil {
		return err
	}
	if state.Phase != domain.PhaseSucceeded {
		if state.Notification != nil {
			return errors.New(state.Notification.Message)
		}
		return fmt.Errorf("analysis ended in phase %s", state.Phase)
	}

	return printResult(os.Stdout, session.Handoff(), analyzeJSON)
}
