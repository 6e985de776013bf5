// internal/collectors/catalog.go
package collectors

import (
	"opensight/internal/collectors/crtsh"
	"opensight/internal/collectors/dns"
	"opensight/internal/collectors/emailpatterns"
	"opensight/internal/collectors/github"
	"opensight/internal/collectors/homepage"
	"opensight/internal/collectors/social"
	"opensight/internal/collectors/whois"
	"opensight/internal/platform/config"
	"opensight/internal/platform/logx"
	"opensight/internal/platform/registry"
)

// HomepageAlias es el nombre alternativo del módulo http.
const HomepageAlias = "homepage"

// Entries construye todos los módulos disponibles a partir de la configuración.
// El orden es el de la ayuda del CLI.
func Entries(cfg config.Config, logger logx.Logger) []registry.Entry {
	return []registry.Entry{
		{
			Name: whois.Name,
			Collector: whois.New(whois.Options{
				Timeout: cfg.Whois.Timeout,
				RDAPURL: cfg.Whois.RDAPURL,
			}, logger),
			Domain:      true,
			Description: "Registrar, dates and name servers (WHOIS, RDAP fallback)",
		},
		{
			Name: dns.Name,
			Collector: dns.New(dns.Options{
				Resolver: cfg.DNS.Resolver,
				Timeout:  cfg.DNS.Timeout,
			}, logger),
			Domain:      true,
			Description: "A, AAAA, CNAME, MX, NS, TXT and SOA records with SPF/DMARC",
		},
		{
			Name: crtsh.Name,
			Collector: crtsh.New(crtsh.Options{
				BaseURL:    cfg.CrtSh.BaseURL,
				MaxResults: cfg.CrtSh.MaxResults,
			}, logger),
			Domain:      true,
			Description: "Certificates from Certificate Transparency logs (crt.sh)",
		},
		{
			Name: homepage.Name,
			Key:  homepage.Key,
			Collector: homepage.New(homepage.Options{
				MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
			}, logger),
			Domain:      true,
			Person:      true,
			Description: "Homepage title, server and technologies from a single GET",
		},
		{
			Name: github.Name,
			Collector: github.New(github.Options{
				APIURL:     cfg.GitHub.APIURL,
				Token:      cfg.GitHub.Token,
				MaxResults: cfg.GitHub.MaxResults,
			}, logger),
			Domain:      true,
			Person:      true,
			Description: "Public repositories and accounts from the GitHub search API",
		},
		{
			Name:        social.Name,
			Key:         social.DomainKey,
			PersonKey:   social.PersonKey,
			Collector:   social.New(),
			Domain:      true,
			Person:      true,
			Description: "Unverified social profile guesses (no network)",
		},
		{
			Name:        emailpatterns.Name,
			Key:         emailpatterns.Key,
			Collector:   emailpatterns.New(cfg.Email.Roles),
			Domain:      true,
			Description: "Role mailbox candidates at the registrable domain (no network)",
		},
	}
}

// NewRegistry construye el registry con todos los módulos y sus alias.
func NewRegistry(cfg config.Config, logger logx.Logger) (*registry.Registry, error) {
	return registry.New(Entries(cfg, logger),
		registry.WithAlias(HomepageAlias, homepage.Name),
	)
}
