package reaper

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/justyntemme/reapergo/pkg/host"
)

// sourceOps holds the accessors shared by borrowed and owned sources. The
// caller has checked ptr before any of them runs.
type sourceOps struct {
	r *Reaper
}

func (o sourceOps) typ(ptr host.Pointer) (string, error) {
	return o.r.api.SourceType(ptr)
}

func (o sourceOps) fileName(ptr host.Pointer) (string, error) {
	return o.r.api.SourceFileName(ptr)
}

func (o sourceOps) length(ptr host.Pointer) (float64, error) {
	length, ok, err := o.r.api.SourceLength(ptr)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("length of source %s: %w", ptr, ErrUnavailable)
	}
	return length, nil
}

func (o sourceOps) parent(ptr host.Pointer) (BorrowedSource, bool, error) {
	parent, err := o.r.api.SourceParent(ptr)
	if err != nil || parent == 0 {
		return BorrowedSource{}, false, err
	}
	return BorrowedSource{r: o.r, ptr: parent}, true, nil
}

func (o sourceOps) exportState(ptr host.Pointer) (string, error) {
	state, err := o.r.api.SourceSaveState(ptr)
	if err != nil {
		return "", err
	}
	return StateToText(state), nil
}

func (o sourceOps) importState(ptr host.Pointer, text string) error {
	ok, err := o.r.api.SourceLoadState(ptr, TextToState(text))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("host rejected state for source %s", ptr)
	}
	return nil
}

func (o sourceOps) duplicate(ptr host.Pointer) (*OwnedSource, error) {
	dup, err := o.r.api.SourceDuplicate(ptr)
	if err != nil {
		return nil, err
	}
	if dup == 0 {
		return nil, fmt.Errorf("source %s: %w", ptr, ErrDuplicationUnsupported)
	}
	return newOwnedSource(o.r, dup), nil
}

// BorrowedSource is an audio source owned by the host, such as the source
// of a media item take. It has no release step. Every call validates the
// pointer first and fails with validate.ErrUseAfterInvalidation once the
// host has freed the source.
type BorrowedSource struct {
	r   *Reaper
	ptr host.Pointer
}

// BorrowSource wraps a host-owned source pointer.
func (r *Reaper) BorrowSource(ptr host.Pointer) BorrowedSource {
	return BorrowedSource{r: r, ptr: ptr}
}

// Pointer returns the raw pointer. It must not be destroyed by the caller.
func (s BorrowedSource) Pointer() host.Pointer {
	return s.ptr
}

// IsValid reports whether the host still knows the source.
func (s BorrowedSource) IsValid() bool {
	return s.r.validator.IsValid(host.KindSource, s.ptr)
}

// IsValidInProject is the stricter check scoped to project p.
func (s BorrowedSource) IsValidInProject(p Project) bool {
	return s.r.validator.IsValidIn(p.ptr, host.KindSource, s.ptr)
}

func (s BorrowedSource) check() (sourceOps, error) {
	if err := s.r.validator.Require(host.KindSource, s.ptr); err != nil {
		return sourceOps{}, err
	}
	return sourceOps{r: s.r}, nil
}

// Type returns the host's type name, for example "WAVE" or "MIDI".
func (s BorrowedSource) Type() (string, error) {
	ops, err := s.check()
	if err != nil {
		return "", err
	}
	return ops.typ(s.ptr)
}

func (s BorrowedSource) FileName() (string, error) {
	ops, err := s.check()
	if err != nil {
		return "", err
	}
	return ops.fileName(s.ptr)
}

// Length returns the length in seconds.
func (s BorrowedSource) Length() (float64, error) {
	ops, err := s.check()
	if err != nil {
		return 0, err
	}
	return ops.length(s.ptr)
}

// Parent returns the source this one wraps, if any, for example the file
// source behind a section source.
func (s BorrowedSource) Parent() (BorrowedSource, bool, error) {
	ops, err := s.check()
	if err != nil {
		return BorrowedSource{}, false, err
	}
	return ops.parent(s.ptr)
}

// Root follows Parent to the outermost source.
func (s BorrowedSource) Root() (BorrowedSource, error) {
	cur := s
	for {
		parent, ok, err := cur.Parent()
		if err != nil {
			return BorrowedSource{}, err
		}
		if !ok {
			return cur, nil
		}
		cur = parent
	}
}

// ExportState returns the source state as text, one record per line.
func (s BorrowedSource) ExportState() (string, error) {
	ops, err := s.check()
	if err != nil {
		return "", err
	}
	return ops.exportState(s.ptr)
}

// ImportState loads state produced by ExportState.
func (s BorrowedSource) ImportState(text string) error {
	ops, err := s.check()
	if err != nil {
		return err
	}
	return ops.importState(s.ptr, text)
}

// Duplicate asks the host for an independent copy that the caller owns.
func (s BorrowedSource) Duplicate() (*OwnedSource, error) {
	ops, err := s.check()
	if err != nil {
		return nil, err
	}
	return ops.duplicate(s.ptr)
}

// ownership is the part of an OwnedSource that its cleanup may see.
type ownership struct {
	ptr      host.Pointer
	released bool
}

// OwnedSource is an audio source the plug-in owns, obtained from
// CreateSourceFromFile, Duplicate or Clone. It is destroyed exactly once:
// by Close, by the host after Detach, or on the next main loop tick after
// the value becomes unreachable without either. Calls after release fail
// with ErrReleased. The raw pointer is never exposed while owned.
type OwnedSource struct {
	ops     sourceOps
	own     *ownership
	cleanup runtime.Cleanup
}

func newOwnedSource(r *Reaper, ptr host.Pointer) *OwnedSource {
	s := &OwnedSource{
		ops: sourceOps{r: r},
		own: &ownership{ptr: ptr},
	}
	queue, api, logger := r.queue, r.api, r.logger
	s.cleanup = runtime.AddCleanup(s, func(own *ownership) {
		if own.released {
			return
		}
		ptr := own.ptr
		err := queue.EnqueueASAP(func() error {
			return api.SourceDestroy(ptr)
		})
		if err != nil {
			logger.Warn("leaking unreleased source", zap.Stringer("source", ptr), zap.Error(err))
		}
	}, s.own)
	return s
}

// CreateSourceFromFile creates a source reading path.
func (r *Reaper) CreateSourceFromFile(path string) (*OwnedSource, error) {
	ptr, err := r.api.SourceCreateFromFile(path)
	if err != nil {
		return nil, err
	}
	if ptr == 0 {
		return nil, fmt.Errorf("source from %q: %w", path, ErrCreateFailed)
	}
	return newOwnedSource(r, ptr), nil
}

func (s *OwnedSource) check() (host.Pointer, error) {
	if s.own.released {
		return 0, ErrReleased
	}
	return s.own.ptr, nil
}

// IsReleased reports whether Close or Detach was called.
func (s *OwnedSource) IsReleased() bool {
	return s.own.released
}

func (s *OwnedSource) Type() (string, error) {
	ptr, err := s.check()
	if err != nil {
		return "", err
	}
	return s.ops.typ(ptr)
}

func (s *OwnedSource) FileName() (string, error) {
	ptr, err := s.check()
	if err != nil {
		return "", err
	}
	return s.ops.fileName(ptr)
}

func (s *OwnedSource) Length() (float64, error) {
	ptr, err := s.check()
	if err != nil {
		return 0, err
	}
	return s.ops.length(ptr)
}

func (s *OwnedSource) Parent() (BorrowedSource, bool, error) {
	ptr, err := s.check()
	if err != nil {
		return BorrowedSource{}, false, err
	}
	return s.ops.parent(ptr)
}

func (s *OwnedSource) ExportState() (string, error) {
	ptr, err := s.check()
	if err != nil {
		return "", err
	}
	return s.ops.exportState(ptr)
}

func (s *OwnedSource) ImportState(text string) error {
	ptr, err := s.check()
	if err != nil {
		return err
	}
	return s.ops.importState(ptr, text)
}

// Clone duplicates the source into a second, independently owned one.
func (s *OwnedSource) Clone() (*OwnedSource, error) {
	ptr, err := s.check()
	if err != nil {
		return nil, err
	}
	return s.ops.duplicate(ptr)
}

// Close destroys the source. Closing twice is a no-op. If the host cannot
// destroy it, s stays owned and Close may be retried.
func (s *OwnedSource) Close() error {
	if s.own.released {
		return nil
	}
	if err := s.ops.r.api.SourceDestroy(s.own.ptr); err != nil {
		return err
	}
	s.own.released = true
	s.cleanup.Stop()
	return nil
}

// Detach hands ownership to the host, for example when the source is
// attached to a take, and returns the raw pointer. s is released afterwards.
func (s *OwnedSource) Detach() (host.Pointer, error) {
	ptr, err := s.check()
	if err != nil {
		return 0, err
	}
	s.own.released = true
	s.cleanup.Stop()
	return ptr, nil
}
