package avatars

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/2beens/fitjournal/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultAvatar = "default.jpg"
	MaxAvatarSize = 5 << 20
)

var (
	ErrAvatarNotFound   = errors.New("avatar not found")
	ErrUnsupportedImage = errors.New("unsupported image type")
	ErrAvatarTooLarge   = errors.New("avatar too large")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store keeps avatar images as flat files under rootPath, named by uuid.
type Store struct {
	rootPath string
}

func NewStore(rootPath string) (*Store, error) {
	if rootPath == "" {
		return nil, errors.New("root path cannot be empty")
	}
	if err := os.MkdirAll(rootPath, 0755); err != nil {
		return nil, fmt.Errorf("create avatars root [%s]: %w", rootPath, err)
	}
	return &Store{
		rootPath: rootPath,
	}, nil
}

// Save writes the image and returns the stored file name. The original name is
// only used for its extension.
func (s *Store) Save(ctx context.Context, originalName string, src io.Reader) (_ string, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "avatars.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%s: %w", ext, ErrUnsupportedImage)
	}

	name := uuid.NewString() + ext
	span.SetAttributes(attribute.String("avatar.name", name))
	dstPath := path.Join(s.rootPath, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(src, MaxAvatarSize+1))
	if err == nil && written > MaxAvatarSize {
		err = ErrAvatarTooLarge
	}
	if err != nil {
		if removeErr := os.Remove(dstPath); removeErr != nil {
			log.Errorf("avatars: remove partial file %s: %s", dstPath, removeErr)
		}
		return "", err
	}

	log.Debugf("avatars: saved %s (%d bytes)", name, written)
	return name, nil
}

// Open returns the avatar file; the caller closes it.
func (s *Store) Open(ctx context.Context, name string) (*os.File, os.FileInfo, error) {
	_, span := tracing.GlobalTracer.Start(ctx, "avatars.open")
	defer span.End()

	if !validName(name) {
		return nil, nil, ErrAvatarNotFound
	}

	f, err := os.Open(path.Join(s.rootPath, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, ErrAvatarNotFound
		}
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, ErrAvatarNotFound
	}

	return f, info, nil
}

// Delete removes a stored avatar. The shared default avatar is never removed.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, span := tracing.GlobalTracer.Start(ctx, "avatars.delete")
	defer span.End()

	if name == DefaultAvatar || name == "" {
		return nil
	}
	if !validName(name) {
		return ErrAvatarNotFound
	}

	if err := os.Remove(path.Join(s.rootPath, name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrAvatarNotFound
		}
		return err
	}
	return nil
}

func validName(name string) bool {
	if name == "" || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return false
	}
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}
