package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newCacheCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the registry response cache",
	}
	cmd.AddCommand(newCacheInfoCmd(cfg))
	cmd.AddCommand(newCacheClearCmd(cfg))
	return cmd
}

func newCacheInfoCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache location and size",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			dir, err := cacheDir(cfg)
			if err != nil {
				return err
			}
			count, size, err := cacheUsage(dir)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", styleTitle.Render("directory:"), styleValue.Render(dir))
			fmt.Printf("%s %s\n", styleTitle.Render("entries:  "), styleValue.Render(fmt.Sprintf("%d", count)))
			fmt.Printf("%s %s\n", styleTitle.Render("size:     "), styleValue.Render(formatBytes(size)))
			fmt.Printf("%s %s\n", styleTitle.Render("ttl:      "), styleValue.Render(cfg.Cache.ttl().String()))
			return nil
		},
	}
}

func newCacheClearCmd(cfg Config) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached registry responses",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			dir, err := cacheDir(cfg)
			if err != nil {
				return err
			}
			count, _, err := cacheUsage(dir)
			if err != nil {
				return err
			}
			if err := os.RemoveAll(dir); err != nil {
				return err
			}
			printSuccess("removed %d cache entries", count)
			return nil
		},
	}
}

func cacheUsage(dir string) (count int, size int64, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		count++
		size += info.Size()
		return nil
	})
	if os.IsNotExist(err) {
		err = nil
	}
	return count, size, err
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
