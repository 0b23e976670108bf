/*
 * watch.go, part of goferam.
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

package control

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	feram "github.com/autoferam/goferam"
)

//LogWatcher follows a feram log while the simulator writes it, and hands
//each new complete time step to a callback. The log does not need to exist
//when the watcher starts. Only the bytes appended since the last read are
//parsed.
type LogWatcher struct {
	Path   string
	Logger *zap.Logger

	offset  int64  //bytes of the log already read
	pending string //text after the last complete section
}

//Watch blocks until ctx is done, calling fn, from the calling goroutine,
//with every time step that is complete in the log. Steps already in the log
//when Watch starts are handed over first.
func (W *LogWatcher) Watch(ctx context.Context, fn func(feram.TimeStep)) error {
	log := W.Logger
	if log == nil {
		log = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	//feram truncates and recreates its log, so the directory is watched.
	if err := watcher.Add(filepath.Dir(W.Path)); err != nil {
		return err
	}
	W.update(fn, log)
	target := filepath.Clean(W.Path)
	for {
		select {
		case <-ctx.Done():
			W.update(fn, log)
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			switch {
			case event.Op&fsnotify.Create != 0:
				W.reset()
				W.update(fn, log)
			case event.Op&fsnotify.Write != 0:
				W.update(fn, log)
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				log.Debug("log removed", zap.String("path", W.Path))
				W.reset()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.String("path", W.Path), zap.Error(err))
		}
	}
}

func (W *LogWatcher) reset() {
	W.offset = 0
	W.pending = ""
}

//update reads what was appended to the log and reports the sections it
//completes.
func (W *LogWatcher) update(fn func(feram.TimeStep), log *zap.Logger) {
	f, err := os.Open(W.Path)
	if err != nil {
		return
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return
	}
	if fi.Size() < W.offset {
		//a new run started over the old log
		log.Debug("log truncated", zap.String("path", W.Path))
		W.reset()
	}
	if _, err := f.Seek(W.offset, io.SeekStart); err != nil {
		return
	}
	b, err := io.ReadAll(f)
	if err != nil {
		log.Warn("reading log", zap.String("path", W.Path), zap.Error(err))
		return
	}
	W.offset += int64(len(b))
	text := W.pending + string(b)
	end := strings.LastIndex(text, logStepEnd)
	if end < 0 {
		W.pending = text
		return
	}
	end += len(logStepEnd)
	W.pending = text[end:]
	for _, s := range feram.ParseLog(text[:end]) {
		fn(s)
	}
}

//logStepEnd closes each section of a feram log.
const logStepEnd = "TIME_STEP_END"
