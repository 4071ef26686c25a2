package shared

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHttpClient(t *testing.T) {
	c := HttpClient(true, time.Second)
	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)
	assert.Equal(t, time.Second, c.Timeout)

	assert.Nil(t, HttpClient(false, 0).Transport)
}

func TestFastClient(t *testing.T) {
	c := FastClient(true, 2*time.Second)
	require.NotNil(t, c.TLSConfig)
	assert.True(t, c.TLSConfig.InsecureSkipVerify)
	assert.Equal(t, 2*time.Second, c.ReadTimeout)

	assert.Nil(t, FastClient(false, time.Second).TLSConfig)
}
