package certificate

import (
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const (
	defaultLogoWidth  = 80
	defaultLogoHeight = 80
)

// LogoOptions sizes the embedded logo. Zero values fall back to 80x80 and no margin.
type LogoOptions struct {
	Width  int
	Height int
	Margin string
}

// LogoEmbedder turns the school logo into an inline <img> tag for certificate templates.
type LogoEmbedder struct {
	path   string
	logger *zap.Logger
}

// NewLogoEmbedder builds an embedder reading the logo from path.
func NewLogoEmbedder(path string, logger *zap.Logger) *LogoEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogoEmbedder{path: path, logger: logger}
}

// ImgTag returns the logo as a data URI image tag. A missing or unreadable logo yields an
// empty string so certificates still render.
func (e *LogoEmbedder) ImgTag(opts LogoOptions) template.HTML {
	if e == nil || e.path == "" {
		return ""
	}
	raw, err := os.ReadFile(e.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.logger.Warn("certificate logo not found", zap.String("path", e.path))
		} else {
			e.logger.Warn("certificate logo unreadable", zap.String("path", e.path), zap.Error(err))
		}
		return ""
	}

	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = defaultLogoWidth
	}
	if height <= 0 {
		height = defaultLogoHeight
	}

	mime := mimetype.Detect(raw)
	tag := fmt.Sprintf(`<img src="data:%s;base64,%s" width="%d" height="%d"`,
		mime.String(), base64.StdEncoding.EncodeToString(raw), width, height)
	if opts.Margin != "" {
		tag += fmt.Sprintf(` style="margin: %s"`, template.HTMLEscapeString(opts.Margin))
	}
	tag += ` alt="logo">`
	return template.HTML(tag)
}
