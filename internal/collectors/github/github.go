// internal/collectors/github/github.go
package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"opensight/internal/core/domain"
	"opensight/internal/core/ports"
	"opensight/internal/platform/errors"
	"opensight/internal/platform/logx"
	"opensight/internal/platform/validator"
)

// Name es el nombre canónico del módulo.
const Name = "github"

// Options configura el collector.
type Options struct {
	// APIURL raíz de la API REST (default https://api.github.com)
	APIURL string

	// Token opcional; sin token aplica el rate limit anónimo
	Token string

	// MaxResults resultados por búsqueda (per_page, máx 100)
	MaxResults int
}

// Repo es un repositorio encontrado.
type Repo struct {
	Name        string `json:"name" yaml:"name"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Stars       int64  `json:"stars" yaml:"stars"`
}

// User es una cuenta encontrada.
type User struct {
	Login string `json:"login" yaml:"login"`
	URL   string `json:"url" yaml:"url"`
}

// Result es el resultado del módulo.
type Result struct {
	Query string `json:"query" yaml:"query"`
	Total int64  `json:"total" yaml:"total"`
	Repos []Repo `json:"repos" yaml:"repos"`
	Users []User `json:"users,omitempty" yaml:"users,omitempty"`
}

// GitHub busca repositorios (y cuentas, en modo persona) en la API pública.
type GitHub struct {
	opts   Options
	logger logx.Logger
}

// New crea una nueva instancia del collector.
func New(opts Options, logger logx.Logger) *GitHub {
	if opts.APIURL == "" {
		opts.APIURL = "https://api.github.com"
	}
	opts.APIURL = strings.TrimSuffix(opts.APIURL, "/")
	if opts.MaxResults <= 0 || opts.MaxResults > 100 {
		opts.MaxResults = 10
	}

	return &GitHub{
		opts:   opts,
		logger: logger.With("module", Name),
	}
}

// Collect implementa ports.Collector.
func (g *GitHub) Collect(ctx context.Context, target domain.Target, sess ports.Session) (any, error) {
	query := strings.TrimSpace(target.Value)
	if !target.IsPerson() {
		query = validator.NormalizeDomain(query)
	}
	if query == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty github query")
	}

	body, err := sess.FetchJSON(ctx, g.searchURL("repositories", query), g.headers())
	if err != nil {
		return nil, errors.Wrap(err, "github repository search")
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.Wrap(errors.ErrInvalidResponse, "github: invalid json")
	}

	parsed := gjson.ParseBytes(body)
	result := &Result{
		Query: query,
		Total: parsed.Get("total_count").Int(),
		Repos: make([]Repo, 0),
	}
	parsed.Get("items").ForEach(func(_, item gjson.Result) bool {
		result.Repos = append(result.Repos, Repo{
			Name:        item.Get("full_name").String(),
			URL:         item.Get("html_url").String(),
			Description: item.Get("description").String(),
			Stars:       item.Get("stargazers_count").Int(),
		})
		return true
	})

	if target.IsPerson() {
		users, err := g.searchUsers(ctx, target, sess)
		if err != nil {
			return nil, err
		}
		result.Users = users
	}

	g.logger.Debug("github search completed", "query", query, "repos", len(result.Repos), "users", len(result.Users))
	return result, nil
}

// searchUsers busca cuentas con el handle principal derivado del nombre.
func (g *GitHub) searchUsers(ctx context.Context, target domain.Target, sess ports.Session) ([]User, error) {
	users := make([]User, 0)
	handles := validator.Handles(target.Value)
	if len(handles) == 0 {
		return users, nil
	}

	body, err := sess.FetchJSON(ctx, g.searchURL("users", handles[0]), g.headers())
	if err != nil {
		return nil, errors.Wrap(err, "github user search")
	}

	gjson.GetBytes(body, "items").ForEach(func(_, item gjson.Result) bool {
		users = append(users, User{
			Login: item.Get("login").String(),
			URL:   item.Get("html_url").String(),
		})
		return true
	})
	return users, nil
}

func (g *GitHub) searchURL(kind, query string) string {
	return fmt.Sprintf("%s/search/%s?q=%s&per_page=%d", g.opts.APIURL, kind, url.QueryEscape(query), g.opts.MaxResults)
}

func (g *GitHub) headers() map[string]string {
	h := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if g.opts.Token != "" {
		h["Authorization"] = "Bearer " + g.opts.Token
	}
	return h
}
