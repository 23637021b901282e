package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fbkclanna/manifold/internal/manifest"
	"github.com/fbkclanna/manifold/internal/workspace"
)

func newManifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Inspect and transform the workspace manifest",
	}
	cmd.AddCommand(
		newManifestResolveCmd(),
		newManifestFreezeCmd(),
		newManifestValidateCmd(),
		newManifestPathCmd(),
		newManifestPathsCmd(),
	)
	return cmd
}

// emitDocument writes a manifest document to stdout or, with -o, to a file.
func emitDocument(cmd *cobra.Command, doc *manifest.Document, outFile string) error {
	if outFile != "" {
		return manifest.Save(outFile, doc)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func newManifestResolveCmd() *cobra.Command {
	var (
		manifestPath string
		outFile      string
	)
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Flatten imports into a single self-contained manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := workspace.Load(startDir(cmd))
			if err != nil {
				return err
			}
			resolved, err := ctx.Resolve(manifestPath)
			if err != nil {
				return err
			}
			return emitDocument(cmd, resolved.Document(), outFile)
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "manifest file relative to the main project (default from workspace state)")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "write resulting manifest to this file instead of stdout")
	return cmd
}

func newManifestFreezeCmd() *cobra.Command {
	var (
		manifestPath string
		outFile      string
	)
	cmd := &cobra.Command{
		Use:   "freeze",
		Short: "Resolve the manifest and pin every project to its current commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := workspace.Load(startDir(cmd))
			if err != nil {
				return err
			}
			resolved, err := ctx.Resolve(manifestPath)
			if err != nil {
				return err
			}
			frozen, err := ctx.Freeze(resolved)
			if err != nil {
				return err
			}
			return emitDocument(cmd, frozen.Document(), outFile)
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "manifest file relative to the main project (default from workspace state)")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "write resulting manifest to this file instead of stdout")
	return cmd
}

func newManifestValidateCmd() *cobra.Command {
	var manifestPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the manifest and everything it imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := workspace.Load(startDir(cmd))
			if err != nil {
				return err
			}
			if _, err := ctx.Resolve(manifestPath); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", "", "manifest file relative to the main project (default from workspace state)")
	return cmd
}

func newManifestPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the absolute path of the workspace manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := workspace.Load(startDir(cmd))
			if err != nil {
				return err
			}
			path := ctx.ManifestPath("")
			if _, err := os.Stat(path); err != nil {
				return &manifest.NotFoundError{Path: path}
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newManifestPathsCmd() *cobra.Command {
	var groups string
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the workspace-relative path of every active project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := workspace.Load(startDir(cmd))
			if err != nil {
				return err
			}
			active, err := ctx.Active("", groups)
			if err != nil {
				return err
			}
			for _, p := range active.Projects {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), p.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&groups, "groups", "G", "", "group filter expression, e.g. +test,-doc")
	return cmd
}
