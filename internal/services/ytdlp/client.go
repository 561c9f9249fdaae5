// Package ytdlp inspects media URLs with yt-dlp and normalizes the result into a catalog.
package ytdlp

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/amaumene/vidarr/internal/config"
	"github.com/amaumene/vidarr/internal/models"
	goytdlp "github.com/lrstanley/go-ytdlp"
	"github.com/sirupsen/logrus"
)

// Inspector validates and inspects media URLs
type Inspector interface {
	ValidateURL(ctx context.Context, sourceURL string) error
	Inspect(ctx context.Context, sourceURL string) (*models.MediaCatalog, error)
}

// Client runs yt-dlp through go-ytdlp
type Client struct {
	executable     string
	timeout        time.Duration
	minVideoHeight int
	logger         *logrus.Logger
}

// NewClient creates a yt-dlp backed inspector
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		executable:     cfg.YtdlpPath,
		timeout:        cfg.InspectTimeout(),
		minVideoHeight: cfg.MinVideoHeight,
		logger:         logger,
	}
}

func (c *Client) command() *goytdlp.Command {
	cmd := goytdlp.New()
	if c.executable != "" {
		cmd = cmd.SetExecutable(c.executable)
	}
	return cmd
}

// ValidateURL checks that sourceURL is well formed and that yt-dlp can extract it
func (c *Client) ValidateURL(ctx context.Context, sourceURL string) error {
	if err := CheckURL(sourceURL); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.command().
		Simulate().
		FlatPlaylist().
		Quiet().
		NoWarnings().
		Run(ctx, sourceURL)
	if err != nil {
		c.logger.WithError(err).WithField("url", sourceURL).Debug("URL probe failed")
		return fmt.Errorf("%w: %s is not supported", models.ErrInvalidURL, sourceURL)
	}

	return nil
}

// Inspect fetches metadata and the format list for sourceURL
func (c *Client) Inspect(ctx context.Context, sourceURL string) (*models.MediaCatalog, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	result, err := c.command().
		DumpSingleJSON().
		SkipDownload().
		NoPlaylist().
		NoWarnings().
		Run(ctx, sourceURL)
	if err != nil {
		c.logger.WithError(err).WithField("url", sourceURL).Error("Inspection failed")
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrInspectionFailed, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v", models.ErrInspectionFailed, err)
	}

	catalog, err := ParseInfo([]byte(result.Stdout), c.minVideoHeight)
	if err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"url":           sourceURL,
		"title":         catalog.Title,
		"video_formats": len(catalog.VideoFormats),
		"audio_formats": len(catalog.AudioFormats),
		"duration_ms":   time.Since(start).Milliseconds(),
	}).Info("Media inspected")

	return catalog, nil
}

// CheckURL performs the syntactic part of URL validation
func CheckURL(sourceURL string) error {
	sourceURL = strings.TrimSpace(sourceURL)
	if sourceURL == "" {
		return fmt.Errorf("%w: url is required", models.ErrInvalidURL)
	}

	u, err := url.Parse(sourceURL)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", models.ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", models.ErrInvalidURL)
	}

	return nil
}
