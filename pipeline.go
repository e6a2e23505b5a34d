package epd

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

var imageExtensions = map[string]struct{}{
	".bmp":  {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".qoi":  {},
	".tif":  {},
	".tiff": {},
	".webp": {},
}

func isImage(file string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(file))]
	return ok
}

func (e *EPD) findImages(ctx context.Context, base string) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(base, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' && file != base {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !isImage(file) {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return ctx.Err()
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (e *EPD) convertWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			b, _, err := e.Convert(file)
			if err != nil {
				// A bad image shouldn't stop the rest of the scan
				e.logger.Printf("Skipping \"%s\": %s\n", file, err)
				continue
			}

			select {
			case <-ctx.Done():
				return
			default:
			}

			id, err := e.store.Store(filepath.Base(file), b)
			if err != nil {
				errc <- err
				return
			}
			e.logger.Printf("Stored \"%s\" as frame %d\n", file, id)
		}
	}()
	return errc, nil
}

// drain fans in every stage's error channel and doesn't return until all of
// them are closed. The first error cancels the remaining stages.
func drain(cancel context.CancelFunc, errs ...<-chan error) error {
	merged := make(chan error)

	var wg sync.WaitGroup
	for _, c := range errs {
		wg.Add(1)
		go func(c <-chan error) {
			defer wg.Done()
			for err := range c {
				merged <- err
			}
		}(c)
	}
	go func() {
		wg.Wait()
		close(merged)
	}()

	var first error
	for err := range merged {
		if err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

// Scan converts and stores every image found under path. Images that fail to
// convert are logged and skipped. If storing a frame fails the scan is
// cancelled and Scan returns once every worker has stopped.
func (e *EPD) Scan(path string) error {
	dir, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := e.findImages(ctx, dir)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < runtime.NumCPU(); i++ {
		errc, err := e.convertWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	return drain(cancelFunc, errcList...)
}
