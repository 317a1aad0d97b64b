// Package pythonproc despacha la búsqueda por similitud al script de
// ranking (embeddings + triplet head) como subproceso: imagen a un
// archivo temporal, hints por variables de entorno, resultado JSON por
// stdout. Un proceso por request, sin reintentos.
package pythonproc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"pet-finder/internal/platform/logger"
	"pet-finder/internal/ports/similarity"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	DefaultTimeout        = 60 * time.Second
	DefaultScript         = "triplet_similarity.py"
	DefaultBaselineScript = "triplet_similarity_baseline.py"
	DefaultPython         = "python3"

	maxStderrDetail = 600
)

type Config struct {
	Python         string // override del intérprete, opcional
	Script         string
	BaselineScript string
	Timeout        time.Duration
}

type Searcher struct {
	cfg Config
	log logger.Logger
}

func New(cfg Config, log logger.Logger) *Searcher {
	if strings.TrimSpace(cfg.Python) == "" {
		cfg.Python = DefaultPython
	}
	if strings.TrimSpace(cfg.Script) == "" {
		cfg.Script = DefaultScript
	}
	if strings.TrimSpace(cfg.BaselineScript) == "" {
		cfg.BaselineScript = DefaultBaselineScript
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.New(logger.Options{Level: logger.Error})
	}
	return &Searcher{cfg: cfg, log: log}
}

func (s *Searcher) Search(ctx context.Context, q similarity.Query) (similarity.Result, error) {
	imgPath, err := writeTempImage(q.Image)
	if err != nil {
		return similarity.Result{}, fmt.Errorf("write query image: %w", err)
	}
	defer func() { _ = os.Remove(imgPath) }()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	script := s.cfg.Script
	if q.Mode == similarity.ModeBaseline {
		script = s.cfg.BaselineScript
	}

	cmd := exec.CommandContext(ctx, s.cfg.Python, script,
		"--image", imgPath,
		"--topk", strconv.Itoa(q.TopK),
	)
	cmd.Env = append(os.Environ(), envHints(q)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return similarity.Result{}, fmt.Errorf("similarity script timed out after %s", s.cfg.Timeout)
		}
		return similarity.Result{}, fmt.Errorf("similarity script failed: %w: %s",
			err, truncate(stderr.String(), maxStderrDetail))
	}

	var res similarity.Result
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		return similarity.Result{}, fmt.Errorf("parse similarity output: %w", err)
	}

	s.log.Debug("similarity script ok", map[string]any{
		"script":  script,
		"took_ms": time.Since(start).Milliseconds(),
		"results": len(res.Results),
	})
	return res, nil
}

func writeTempImage(img []byte) (string, error) {
	f, err := os.CreateTemp("", "similarity-query-"+uuid.NewString()+"-*.jpg")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(img); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// envHints traduce los filtros opcionales a las variables que el
// script lee. Los vacíos no se mandan.
func envHints(q similarity.Query) []string {
	var env []string
	if q.Gender != "" {
		env = append(env, "SEARCH_GENDER="+q.Gender)
	}
	if q.LostDate != "" {
		env = append(env, "SEARCH_LOST_DATE="+q.LostDate)
	}
	if q.AnimalType != "" {
		env = append(env, "SEARCH_ANIMAL_TYPE="+q.AnimalType)
	}
	return env
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
