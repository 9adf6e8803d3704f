/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"github.com/bmw-wellness/apiserver/config"
	"github.com/bmw-wellness/apiserver/internal/logging"
	"github.com/bmw-wellness/apiserver/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var clientSourceDir string

// clientCmd groups commands that manage the single-page client assets.
var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage the web client assets",
}

var clientPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload a client build to the configured client storage",
	Long: `Uploads every file under --dir to the storage selected by CLIENT_BACKEND,
keyed by its path relative to --dir. Usage:

	wellness client publish --dir public
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		logger := logging.New(cfg)

		if cfg.Client.Backend == config.ClientBackendDir {
			same, err := sameDir(clientSourceDir, cfg.Client.Dir)
			if err != nil {
				return err
			}
			if same {
				return fmt.Errorf("source %q is already the client directory", clientSourceDir)
			}
		}

		assets, err := storage.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if err := assets.EnsureBucket(cmd.Context()); err != nil {
			return fmt.Errorf("ensure bucket %s: %w", assets.Bucket(), err)
		}

		count, err := publishDir(cmd.Context(), assets, clientSourceDir, logger)
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{"bucket": assets.Bucket(), "files": count}).Info("client published")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clientCmd)
	clientCmd.AddCommand(clientPublishCmd)

	clientPublishCmd.Flags().StringVar(&clientSourceDir, "dir", "public", "directory containing the client build")
}

func publishDir(ctx context.Context, assets *storage.Storage, root string, logger logrus.FieldLogger) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := assets.Put(ctx, key, f, info.Size(), contentType); err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}

		logger.WithField("object", key).Debug("uploaded")
		count++
		return nil
	})
	return count, err
}

func sameDir(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}
