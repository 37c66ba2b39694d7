// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package asset downloads condition icons once per URL and keeps them for the lifetime of the
// process, optionally mirrored into a directory on disk.
package asset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/wneessen/cityweather/internal/cache"
	"github.com/wneessen/cityweather/internal/http"
	"github.com/wneessen/cityweather/internal/logger"
)

const (
	// CacheName identifies the image cache towards a cache.Observer.
	CacheName = "asset"

	// IconPlaceholder is replaced by the icon code in the icon URL template.
	IconPlaceholder = "{icon}"

	// DefaultIconURL is the icon URL template of the OpenWeatherMap icon set.
	DefaultIconURL = "https://openweathermap.org/img/wn/" + IconPlaceholder + "@2x.png"
)

var (
	// ErrNotAnImage is returned when a downloaded asset is not an image.
	ErrNotAnImage = errors.New("downloaded asset is not an image")

	// ErrEmptyIconCode is returned by Icon for an empty icon code.
	ErrEmptyIconCode = errors.New("icon code is empty")
)

// Image is a downloaded image. Path is set when the image was written to disk.
type Image struct {
	URL         string
	ContentType string
	Data        []byte
	Path        string
}

// Store retrieves images and caches them by URL.
type Store struct {
	http        *http.Client
	log         *logger.Logger
	urlTemplate string
	dir         string
	images      *cache.Cache[Image]
}

// New returns a Store. iconURL is a URL template containing IconPlaceholder; an empty template
// selects DefaultIconURL. If dir is not empty, downloaded images are written into it.
func New(http *http.Client, log *logger.Logger, iconURL, dir string, opts ...cache.Option) (*Store, error) {
	if http == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if iconURL == "" {
		iconURL = DefaultIconURL
	}
	if !strings.Contains(iconURL, IconPlaceholder) {
		return nil, fmt.Errorf("icon URL template %q does not contain %s", iconURL, IconPlaceholder)
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create asset directory: %w", err)
		}
	}

	return &Store{
		http:        http,
		log:         log,
		urlTemplate: iconURL,
		dir:         dir,
		images:      cache.New[Image](CacheName, opts...),
	}, nil
}

// IconURL returns the URL of the icon with the given code.
func (s *Store) IconURL(code string) string {
	return strings.ReplaceAll(s.urlTemplate, IconPlaceholder, url.PathEscape(code))
}

// Icon returns the icon image for the given condition icon code.
func (s *Store) Icon(ctx context.Context, code string) (Image, error) {
	if code == "" {
		return Image{}, ErrEmptyIconCode
	}
	return s.Get(ctx, s.IconURL(code))
}

// Get returns the image at address, downloading it on the first request. Concurrent requests for
// the same address share one download.
func (s *Store) Get(ctx context.Context, address string) (Image, error) {
	return s.images.Get(ctx, address, func(ctx context.Context) (Image, error) {
		return s.download(ctx, address)
	})
}

// Peek returns the image at address if it was downloaded before.
func (s *Store) Peek(address string) (Image, bool) {
	return s.images.Peek(address)
}

func (s *Store) download(ctx context.Context, address string) (Image, error) {
	s.log.Debug("downloading image", slog.String("url", address))
	data, err := s.http.Fetch(ctx, address, nil, nil)
	if err != nil {
		return Image{}, fmt.Errorf("failed to download image: %w", err)
	}
	img := Image{URL: address, ContentType: stdhttp.DetectContentType(data), Data: data}
	if !strings.HasPrefix(img.ContentType, "image/") {
		return Image{}, fmt.Errorf("%w: %s is %s", ErrNotAnImage, address, img.ContentType)
	}

	if s.dir == "" {
		return img, nil
	}
	img.Path, err = s.write(address, data)
	if err != nil {
		return Image{}, err
	}
	return img, nil
}

// write stores data in the asset directory under the last path element of address.
func (s *Store) write(address string, data []byte) (string, error) {
	parsed, err := url.Parse(address)
	if err != nil {
		return "", fmt.Errorf("failed to parse image URL: %w", err)
	}
	name := path.Base(parsed.Path)
	if name == "." || name == "/" {
		return "", fmt.Errorf("image URL %q has no file name", address)
	}

	target := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary image file: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Error("failed to remove temporary image file", logger.Err(err))
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close image file: %w", err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to move image file into place: %w", err)
	}
	s.log.Debug("stored image", slog.String("path", target))
	return target, nil
}
