package shared

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/valyala/fasthttp"
)

// HttpClient is used by the Finnhub SDK and the OAuth token source.
func HttpClient(ignoreSSL bool, timeout time.Duration) *http.Client {
	if ignoreSSL {
		log.Warn("SSL certificate verification disabled")
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		return &http.Client{Transport: tr, Timeout: timeout}
	}

	return &http.Client{Timeout: timeout}
}

// FastClient is used by the generic HTTP quote source.
func FastClient(ignoreSSL bool, timeout time.Duration) *fasthttp.Client {
	c := &fasthttp.Client{
		Name:                "papertrade-quotes",
		ReadTimeout:         timeout,
		WriteTimeout:        timeout,
		MaxIdleConnDuration: time.Minute,
	}
	if ignoreSSL {
		log.Warn("SSL certificate verification disabled for quote client")
		c.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return c
}
