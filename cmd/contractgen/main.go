// Package main provides the contractgen CLI: it validates the game
// contract document and generates (or checks) the typed-constant bindings
// committed under bindings/.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/kuhnforge/gamecore/compiler"
	"github.com/kuhnforge/gamecore/contract"
)

// Version information (set by build flags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// CLI flags
var (
	contractPath string
	schemaPath   string
	bindingsDir  string
	check        bool
	verbose      bool
	showVersion  bool
)

func init() {
	flag.StringVar(&contractPath, "contract", envOr("CONTRACT_PATH", "contracts/kuhn.v1.json"), "Path to the contract JSON document")
	flag.StringVar(&schemaPath, "schema", envOr("CONTRACT_SCHEMA_PATH", "contracts/schema/game_contract.schema.json"), "Path to the contract JSON schema")
	flag.StringVar(&bindingsDir, "out", envOr("BINDINGS_DIR", "bindings"), "Directory holding the generated bindings")
	flag.BoolVar(&check, "check", false, "Check mode: fail if committed bindings are out of date, write nothing")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
}

// envOr reads flag defaults from the environment, so CI can steer paths
// without repeating flags. A missing .env file is not an error.
func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()
	flag.Parse()

	if showVersion {
		fmt.Printf("contractgen %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	if err := run(log); err != nil {
		var drift *compiler.DriftError
		if errors.As(err, &drift) {
			log.Error("generated bindings are out of date, run contractgen to refresh:")
			for _, name := range drift.Stale {
				log.Errorf("  - %s", filepath.Join(bindingsDir, filepath.FromSlash(name)))
			}
			os.Exit(1)
		}
		log.Fatal(err)
	}
}

func run(log *logrus.Logger) error {
	contractJSON, err := os.ReadFile(contractPath)
	if err != nil {
		return fmt.Errorf("reading contract: %w", err)
	}
	schemaJSON, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("reading schema: %w", err)
	}

	report := contract.Validate(contractJSON, schemaJSON)
	if report.Degraded {
		log.Warn("schema could not be compiled, falling back to required-key checks only")
	}
	if !report.Valid() {
		for _, v := range report.Errors {
			log.WithField("field", v.Field).Error(v.Message)
		}
		return fmt.Errorf("contract validation failed with %d error(s)", len(report.Errors))
	}

	doc, err := contract.Parse(contractJSON)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"contract": doc.ContractName,
		"version":  doc.Version,
	}).Debug("contract validated")

	artifacts, err := compiler.Compile(doc, filepath.ToSlash(contractPath))
	if err != nil {
		return err
	}

	if check {
		if err := compiler.VerifyArtifacts(bindingsDir, artifacts); err != nil {
			return err
		}
		log.Info("generated bindings are up to date")
		return nil
	}

	changed, err := compiler.WriteArtifacts(bindingsDir, artifacts)
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		log.Info("no binding changes detected")
		return nil
	}
	for _, name := range changed {
		log.WithField("file", filepath.Join(bindingsDir, filepath.FromSlash(name))).Info("wrote bindings")
	}
	return nil
}
