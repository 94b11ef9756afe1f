package main

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"synnergy-network/internal/config"
	"synnergy-network/internal/manifest"
	"synnergy-network/pkg/utils"
)

func generateCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "generate <config.yaml>",
		Short: "generate a host manifest and side registries from an experiment config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(args[0], outDir)
		},
	}
	cmd.Flags().StringVar(&outDir, "out", utils.EnvOrDefault("SIMHARNESS_OUT_DIR", "."), "directory to write the generated manifest and registries into")
	return cmd
}

func runGenerate(configPath, outDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	e := manifest.NewEmitter(cfg)

	gmlOutPath := filepath.Join(outDir, "network.gml")
	if cfg.Network.Type == "gml" {
		src, err := os.ReadFile(cfg.Network.Path)
		if err != nil {
			logrus.WithError(err).WithField("path", cfg.Network.Path).Error("generate: failed to read GML network file")
			return err
		}
		if err := e.LoadGraph(string(src)); err != nil {
			return err
		}
	}

	manifestDoc, agentEntries, minerEntries, err := e.Emit()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	yamlOut, err := manifestDoc.ToYAML(gmlOutPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "shadow.yaml"), []byte(yamlOut), 0o644); err != nil {
		return err
	}
	if cfg.Network.Type == "gml" && manifestDoc.NetworkGraphGML != "" {
		if err := os.WriteFile(gmlOutPath, []byte(manifestDoc.NetworkGraphGML), 0o644); err != nil {
			return err
		}
	}

	agentJSON, err := manifest.AgentRegistryJSON(agentEntries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "agent_registry.json"), agentJSON, 0o644); err != nil {
		return err
	}

	minerJSON, err := manifest.MinersJSON(minerEntries)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "miners.json"), minerJSON, 0o644); err != nil {
		return err
	}

	manifestsGenerated.Inc()
	logrus.WithFields(logrus.Fields{
		"hosts":  len(manifestDoc.Hosts),
		"agents": len(agentEntries),
		"miners": len(minerEntries),
		"out":    outDir,
	}).Info("generate: host manifest emitted")
	return nil
}
