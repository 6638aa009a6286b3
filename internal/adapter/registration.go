package adapter

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/relayfish/remote-uci/internal/session"
)

// RegistrationInfo is everything the hosted registration URL needs beyond
// the fixed lichess.org endpoint.
type RegistrationInfo struct {
	Host              string // host:port the browser will reach us at
	TLS               bool
	Secret            session.Secret
	Name              string
	MaxThreads        int64
	MaxHash           int64
	Variants          []string
	OfficialStockfish bool
}

// RegistrationURL builds the lichess.org external-engine registration URL
// for the given info. The domain is intentionally hardcoded (see design
// notes): generalizing it to a configurable host is a reasonable
// extension, not a requirement.
func RegistrationURL(info RegistrationInfo) string {
	wsScheme, httpScheme := "ws", "http"
	if info.TLS {
		wsScheme, httpScheme = "wss", "https"
	}
	_ = httpScheme

	wsURL := fmt.Sprintf("%s://%s/socket", wsScheme, info.Host)

	q := url.Values{}
	q.Set("url", wsURL)
	q.Set("secret", string(info.Secret))
	q.Set("name", info.Name)
	q.Set("maxThreads", strconv.FormatInt(info.MaxThreads, 10))
	q.Set("maxHash", strconv.FormatInt(info.MaxHash, 10))
	if len(info.Variants) > 0 {
		q.Set("variants", strings.Join(info.Variants, ","))
	}
	if info.OfficialStockfish {
		q.Set("officialStockfish", "true")
	}

	return "https://lichess.org/analysis/external?" + q.Encode()
}
