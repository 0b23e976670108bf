/*
 * archive.go, part of goferam.
 *
 *
 * Copyright 2024 The goferam Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 */

package ops

import (
	"archive/tar"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

//Archive packs a file or directory into a tar archive. The archive is
//compressed according to the extension of Dst: zstd for .zst (or .tzst),
//gzip for .gz (or .tgz), and nothing for plain .tar. Entries are named
//relative to the parent of Src, so the archive unpacks into a single
//directory named like Src.
type Archive struct {
	Src, Dst Path
}

func (a Archive) Name() string { return "Archive" }

func (a Archive) Run(ctx context.Context) Result {
	return guard(ctx, a.Name(), []Path{a.Src, a.Dst}, func() (string, error) {
		dst := a.Dst.Resolve(ctx)
		if err := writeArchive(ctx, a.Src.Resolve(ctx), dst); err != nil {
			os.Remove(dst)
			return "", err
		}
		return arrow(a.Src, a.Dst), nil
	})
}

//compressor returns the writer that compresses the archive, by the extension of name.
func compressor(name string, w io.Writer) (io.WriteCloser, error) {
	lname := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lname, ".zst"), strings.HasSuffix(lname, ".tzst"):
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	case strings.HasSuffix(lname, ".tar"):
		return nopCloser{w}, nil
	default:
		return gzip.NewWriterLevel(w, gzip.DefaultCompression)
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func writeArchive(ctx context.Context, src, dst string) error {
	src = filepath.Clean(src)
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()
	zw, err := compressor(dst, f)
	if err != nil {
		return err
	}
	tw := tar.NewWriter(zw)
	absDst, _ := filepath.Abs(dst)
	base := filepath.Dir(src)
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		//the archive may live inside the directory it archives.
		if abs, _ := filepath.Abs(path); abs == absDst {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() && !info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(tw, in)
		return err
	})
	if err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return f.Close()
}
