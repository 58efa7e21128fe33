package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// DefaultNoiseURL serves the ashima simplex noise functions (snoise(vec3)).
const DefaultNoiseURL = "https://raw.githubusercontent.com/ashima/webgl-noise/master/src/noise3D.glsl"

// Global client with a custom User-Agent header.
var httpClient = &http.Client{
	Transport: &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	},
}

type headerTransport struct {
	Transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", "https://github.com/richinsley/noisebox")
	return t.Transport.RoundTrip(req)
}

func init() {
	httpClient.Transport = &headerTransport{Transport: http.DefaultTransport}
}

// NoiseClient fetches GLSL noise source text from a fixed URL.
type NoiseClient struct {
	url    string
	client *http.Client
}

func NewNoiseClient(url string) *NoiseClient {
	if url == "" {
		url = DefaultNoiseURL
	}
	return &NoiseClient{url: url, client: httpClient}
}

func (c *NoiseClient) URL() string {
	return c.url
}

// FetchShader performs a single GET and returns the body as shader source.
// There is no retry and no timeout beyond ctx; the content is not validated.
func (c *NoiseClient) FetchShader(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/plain, */*")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch noise shader %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to load noise shader %s: bad response status: %s", c.url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}
