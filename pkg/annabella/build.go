package annabella

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/mgjm/annabella/pkg/annabella/runtime"
)

// Build compiles generated C source into a native executable at outName,
// linking it against the embedded runtime (SPEC §10.6, supplementing the
// out-of-scope "C build toolchain" collaborator named in §1). It mirrors
// the teacher's own Compiler.build: the generated text is streamed into
// the compiler's stdin over an io.Pipe while a second goroutine waits on
// the subprocess, coordinated by an errgroup.Group so either failure is
// reported.
func (c *Compiler) Build(src, outName string) error {
	dir, err := os.MkdirTemp("", "annabella-build-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	runtimeSrc := filepath.Join(dir, "annabella-rt.c")
	runtimeHdr := filepath.Join(dir, "annabella-rt.h")
	if err := os.WriteFile(runtimeSrc, runtime.Source, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(runtimeHdr, runtime.Header, 0o644); err != nil {
		return err
	}

	args := []string{
		"-x", "c", "-",
		runtimeSrc,
		"-I", dir,
		"-o", outName,
	}
	if t := c.Target; t != (Target{}) {
		args = append(args, "--target="+t.String())
	}
	cmd := exec.Command(compilerCommand(), args...)

	r, w := io.Pipe()
	cmd.Stdin = r

	var errs errgroup.Group
	errs.Go(func() error {
		if _, err := io.WriteString(w, src); err != nil {
			return err
		}
		return w.Close()
	})

	errs.Go(func() error {
		out, err := cmd.CombinedOutput()
		if err != nil {
			return fmt.Errorf("%v: %s", err, out)
		}
		return nil
	})

	return errs.Wait()
}

// compilerCommand picks the native C compiler to invoke. cc is the POSIX
// name every build environment in this corpus can be expected to provide;
// clang is the teacher's own choice and is tried first where present.
func compilerCommand() string {
	if path, err := exec.LookPath("clang"); err == nil {
		return path
	}
	return "cc"
}
