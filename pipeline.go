package fbpro

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bodgit/fbpro/anim"
	"github.com/bodgit/fbpro/render"
)

const (
	screenExt   = ".scr"
	animDir     = "anim"
	catalogName = "CATALOG"

	// Screens are a few tens of KB, anything this big is something else
	maxScreenSize = 16 << (10 * 2)
)

type exporter struct {
	*config
	dir string
	out string
}

func (e *exporter) write(file string, m image.Image) error {
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := render.Encode(f, render.Scale(m, e.scale), e.format); err != nil {
		return err
	}

	return f.Close()
}

func (e *exporter) findScreens(ctx context.Context) (<-chan string, <-chan error, error) {
	out := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		errc <- filepath.Walk(e.dir, func(file string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Ignore any hidden files or directories, otherwise we end up fighting with things like Spotlight, etc.
			if info.Name()[0] == '.' {
				if info.Mode().IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			// Don't descend into the output if it's inside the game directory
			if info.Mode().IsDir() && file == e.out {
				return filepath.SkipDir
			}

			if !info.Mode().IsRegular() || info.Size() > maxScreenSize {
				return nil
			}

			if strings.ToLower(filepath.Ext(file)) != screenExt {
				return nil
			}

			select {
			case out <- file:
			case <-ctx.Done():
				return errors.New("walk cancelled")
			}

			return nil
		})
	}()
	return out, errc, nil
}

func (e *exporter) screenWorker(ctx context.Context, in <-chan string) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for file := range in {
			b, err := os.ReadFile(file)
			if err != nil {
				errc <- err
				return
			}

			m, err := e.decodeScreen(b)
			if err != nil {
				e.logger.Printf("Skipping screen \"%s\": %v\n", file, err)
				continue
			}
			if m.Width == 0 || m.Height == 0 {
				e.logger.Printf("Skipping empty screen \"%s\"\n", file)
				continue
			}

			p, path, err := ScreenPalette(e.dir, file)
			if err != nil {
				e.logger.Printf("Bad palette for \"%s\": %v\n", file, err)
				continue
			}
			if path == "" {
				e.logger.Printf("No palette for \"%s\", using grayscale\n", file)
			}

			rel, err := filepath.Rel(e.dir, file)
			if err != nil {
				errc <- err
				return
			}

			target := filepath.Join(e.out, strings.TrimSuffix(rel, filepath.Ext(rel))+e.format.Ext())
			if err := e.write(target, m.Paletted(p)); err != nil {
				errc <- err
				return
			}

			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()
	return errc, nil
}

func (e *exporter) findAnimations(ctx context.Context, db *Database) (<-chan *anim.Animation, <-chan error, error) {
	out := make(chan *anim.Animation)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)

		anims := db.Animations()
		if len(anims) > 0 {
			m := render.Catalog(anims, db.Palette(), e.view)
			if err := e.write(filepath.Join(e.out, animDir, catalogName+e.format.Ext()), m); err != nil {
				errc <- err
				return
			}
		}

		for _, a := range anims {
			select {
			case out <- a:
			case <-ctx.Done():
				errc <- errors.New("export cancelled")
				return
			}
		}
	}()
	return out, errc, nil
}

func (e *exporter) sheetWorker(ctx context.Context, db *Database, in <-chan *anim.Animation) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for a := range in {
			if !SafeName(a.Name) {
				e.logger.Printf("Skipping animation with unusable name \"%s\"\n", a.Name)
				continue
			}
			if a.Frames == 0 {
				e.logger.Printf("Skipping animation \"%s\" with no frames\n", a.Name)
				continue
			}

			file := filepath.Join(e.out, animDir, a.Name+e.format.Ext())
			if err := e.write(file, render.Sheet(a, db.Palette())); err != nil {
				errc <- err
				return
			}

			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Export converts every screen below the game directory dir and, if the
// animation archive is present, every animation into images under out.
// Screens keep their relative path; sprite sheets and a catalog are written
// to an anim directory.
func Export(ctx context.Context, dir, out string, opts ...Option) error {
	var err error
	e := &exporter{config: newConfig(opts)}

	if e.dir, err = filepath.Abs(dir); err != nil {
		return err
	}
	if e.out, err = filepath.Abs(out); err != nil {
		return err
	}

	var db *Database
	switch _, err := lookupFile(e.dir, AnimFilename); {
	case err == nil:
		if db, err = Open(e.dir, opts...); err != nil {
			return err
		}
	case errors.Is(err, os.ErrNotExist):
		e.logger.Printf("No %s in \"%s\", skipping animations\n", AnimFilename, e.dir)
	default:
		return err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	var errcList []<-chan error

	files, errc, err := e.findScreens(ctx)
	if err != nil {
		return err
	}
	errcList = append(errcList, errc)

	for i := 0; i < e.workers; i++ {
		errc, err := e.screenWorker(ctx, files)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)
	}

	if db != nil {
		anims, errc, err := e.findAnimations(ctx, db)
		if err != nil {
			return err
		}
		errcList = append(errcList, errc)

		for i := 0; i < e.workers; i++ {
			errc, err := e.sheetWorker(ctx, db, anims)
			if err != nil {
				return err
			}
			errcList = append(errcList, errc)
		}
	}

	return waitForPipeline(errcList...)
}
