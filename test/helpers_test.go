package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) doRequest(ctx context.Context, method, path, contentType string, body io.Reader) (int, []byte) {
	t := s.T()

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) postJSON(ctx context.Context, path string, payload any) (int, []byte) {
	body, err := json.Marshal(payload)
	require.NoError(s.T(), err)
	return s.doRequest(ctx, "POST", path, "application/json", bytes.NewReader(body))
}

func (s *IntegrationTestSuite) uploadCSV(ctx context.Context, path, fileName, content string) (int, []byte) {
	t := s.T()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return s.doRequest(ctx, "POST", path, mw.FormDataContentType(), body)
}
