package main

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"github.com/fairlab/labbook/internal/archive"
	"github.com/fairlab/labbook/internal/storage"
)

func newPublishCommand() *cobra.Command {
	var (
		uploadID  string
		rawPath   string
		overwrite bool
		toBlob    bool
		bundleOut string
	)

	cmd := &cobra.Command{
		Use:   "publish <notebook.ipynb>",
		Short: "Publish a notebook to the host platform",
		Long: `Publish a generated notebook.

By default the notebook is uploaded to the host platform's archive API and
processed into an entry; the entry's reference is printed on success. The
API token is read from the LABBOOK_TOKEN environment variable.

With --blob the notebook is mirrored to the configured Azure Blob Storage
container instead. With --bundle the argument is a directory whose notebooks
are packed into a gzipped tarball.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if bundleOut != "" {
				return bundleCommandE(cmd, args[0], bundleOut)
			}
			return publishCommandE(cmd, args[0], uploadID, rawPath, overwrite, toBlob)
		},
	}

	cmd.Flags().StringVar(&uploadID, "upload", "", "Target upload ID (default from .labbook.yaml)")
	cmd.Flags().StringVar(&rawPath, "path", "", "Path within the upload's raw directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file in the upload")
	cmd.Flags().BoolVar(&toBlob, "blob", false, "Mirror to the configured blob container instead of the archive API")
	cmd.Flags().StringVar(&bundleOut, "bundle", "", "Pack a notebooks directory into the given .tar.gz instead of uploading")

	return cmd
}

func publishCommandE(cmd *cobra.Command, notebookPath, uploadID, rawPath string, overwrite, toBlob bool) error {
	proj, err := loadProject("")
	if err != nil {
		return err
	}

	data, err := os.ReadFile(notebookPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", notebookPath, err)
	}
	fileName := filepath.Base(notebookPath)

	if toBlob {
		if proj.cfg.Blob.AccountURL == "" {
			return fmt.Errorf("no blob account configured; set blob.account_url in .labbook.yaml")
		}
		blob, err := storage.NewBlob(proj.cfg.Blob.AccountURL, proj.cfg.Blob.Container)
		if err != nil {
			return err
		}
		if !overwrite {
			exists, err := blob.Exists(cmd.Context(), fileName)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("blob %q already exists (pass --overwrite to replace it)", fileName)
			}
		}
		if err := blob.Write(cmd.Context(), fileName, data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mirrored %s to container %s\n", fileName, proj.cfg.Blob.Container) //nolint:errcheck
		return nil
	}

	if proj.cfg.Archive.BaseURL == "" {
		return fmt.Errorf("no archive API configured; set archive.base_url in .labbook.yaml")
	}
	if uploadID == "" {
		uploadID = proj.cfg.Archive.UploadID
	}
	if uploadID == "" {
		return fmt.Errorf("no upload ID given; pass --upload or set archive.upload_id in .labbook.yaml")
	}

	client := archive.NewClient(proj.cfg.Archive.BaseURL, os.Getenv("LABBOOK_TOKEN"))
	ref, err := client.Publish(cmd.Context(), uploadID, fileName, data, archive.PublishOptions{
		Path:      rawPath,
		Overwrite: overwrite,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Published %s\n  %s\n", fileName, ref) //nolint:errcheck
	return nil
}

// bundleCommandE packs every notebook under dir into a gzipped tarball.
func bundleCommandE(cmd *cobra.Command, dir, out string) error {
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close() //nolint:errcheck

	gw := gzip.NewWriter(f)
	tw := tar.NewWriter(gw)

	count := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".ipynb") {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, src)
		src.Close() //nolint:errcheck
		if err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return fmt.Errorf("bundling %s: %w", dir, err)
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finalizing tarball: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("finalizing gzip stream: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", out, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Bundled %d notebooks into %s\n", count, out) //nolint:errcheck
	return nil
}
