// internal/platform/validator/validator.go
package validator

import (
	"net"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/publicsuffix"
)

var (
	domainRegex = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?$`)
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	unsafeRunes = regexp.MustCompile(`[^A-Za-z0-9_.\-]`)
)

const maxFilenameLen = 200

// Domain validators

// IsDomain verifica si un string es un dominio válido.
// Soporta punycode; las IPs no se consideran dominios.
func IsDomain(domain string) bool {
	if len(domain) == 0 || len(domain) > 253 {
		return false
	}
	if !domainRegex.MatchString(domain) {
		return false
	}
	return net.ParseIP(domain) == nil
}

// NormalizeDomain normaliza un dominio a su forma canónica.
// Acepta también URLs completas y se queda con el host.
func NormalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if strings.Contains(domain, "://") {
		if u, err := url.Parse(domain); err == nil && u.Hostname() != "" {
			domain = u.Hostname()
		}
	}
	domain = strings.TrimSuffix(domain, ".")
	domain = strings.TrimPrefix(domain, "www.")
	return domain
}

// RegistrableDomain retorna el dominio registrable (eTLD+1) usando la
// public suffix list. Si no puede derivarse, retorna el dominio tal cual.
func RegistrableDomain(domain string) string {
	domain = NormalizeDomain(domain)
	base, err := publicsuffix.EffectiveTLDPlusOne(domain)
	if err != nil {
		return domain
	}
	return base
}

// Email validators

// IsEmail valida formato de email (RFC 5322 simplificado).
func IsEmail(email string) bool {
	if len(email) == 0 || len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// Network validators

// IsIP verifica si un string es una dirección IP válida (v4 o v6).
func IsIP(ip string) bool {
	return net.ParseIP(ip) != nil
}

// IsURL verifica si un string es una URL absoluta con scheme y host.
func IsURL(urlStr string) bool {
	if len(urlStr) == 0 {
		return false
	}
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}

// Filesystem helpers

// SafeFilename reemplaza todo carácter fuera de [A-Za-z0-9_.-] por "_"
// y trunca a 200 caracteres.
func SafeFilename(s string) string {
	out := unsafeRunes.ReplaceAllString(s, "_")
	if len(out) > maxFilenameLen {
		out = out[:maxFilenameLen]
	}
	return out
}

// Person helpers

// Handles deriva posibles usernames a partir de un nombre.
// "John Doe" produce johndoe, john.doe, john_doe, john-doe, jdoe, johnd.
// El orden es estable y sin duplicados.
func Handles(name string) []string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(words) == 0 {
		return nil
	}

	candidates := []string{strings.Join(words, "")}
	if len(words) > 1 {
		first, last := words[0], words[len(words)-1]
		candidates = append(candidates,
			strings.Join(words, "."),
			strings.Join(words, "_"),
			strings.Join(words, "-"),
			string([]rune(first)[:1])+last,
			first+string([]rune(last)[:1]),
		)
	}

	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Generic validators

// IsEmpty verifica si un string está vacío o solo contiene espacios.
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}
