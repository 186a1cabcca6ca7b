//go:build integration

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/averycrespi/vooshi/internal/reporter"
	"github.com/averycrespi/vooshi/internal/results"
)

// MCPRequest represents a JSON-RPC 2.0 request
type MCPRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// MCPResponse represents a JSON-RPC 2.0 response
type MCPResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *MCPError       `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC 2.0 error
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MCPServerProcess manages the vooshi mcp process for testing
type MCPServerProcess struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	scanner *bufio.Scanner
}

func startMCPServer(t *testing.T, workspaceRoot, endpoint string) *MCPServerProcess {
	cmd := exec.Command("go", "run", ".", "mcp", "--log-level", "debug")
	cmd.Env = append(os.Environ(),
		"HOME="+t.TempDir(),
		"VOOSHI_PROVIDER=treesitter",
		"VOOSHI_WORKSPACE_ROOT="+workspaceRoot,
		"VOOSHI_ENDPOINT="+endpoint,
	)

	stdin, err := cmd.StdinPipe()
	require.NoError(t, err, "Failed to create stdin pipe")

	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err, "Failed to create stdout pipe")

	stderr, err := cmd.StderrPipe()
	require.NoError(t, err, "Failed to create stderr pipe")

	require.NoError(t, cmd.Start(), "Failed to start vooshi mcp")

	go func() {
		stderrScanner := bufio.NewScanner(stderr)
		for stderrScanner.Scan() {
			t.Logf("Server stderr: %s", stderrScanner.Text())
		}
	}()

	return &MCPServerProcess{
		cmd:     cmd,
		stdin:   stdin,
		scanner: bufio.NewScanner(stdout),
	}
}

// stop closes stdin so the server drains and exits
func (s *MCPServerProcess) stop() {
	s.stdin.Close()
	done := make(chan struct{})
	go func() {
		_ = s.cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		_ = s.cmd.Process.Kill()
	}
}

func (s *MCPServerProcess) sendRequest(t *testing.T, req MCPRequest) MCPResponse {
	reqJSON, err := json.Marshal(req)
	require.NoError(t, err, "Failed to marshal request")

	_, err = s.stdin.Write(append(reqJSON, '\n'))
	require.NoError(t, err, "Failed to write request")

	// go run compiles first, so the first answer can take a while
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	done := make(chan MCPResponse, 1)
	errChan := make(chan error, 1)

	go func() {
		if s.scanner.Scan() {
			var resp MCPResponse
			if err := json.Unmarshal(s.scanner.Bytes(), &resp); err != nil {
				errChan <- fmt.Errorf("failed to unmarshal response: %v", err)
				return
			}
			done <- resp
		} else if err := s.scanner.Err(); err != nil {
			errChan <- fmt.Errorf("scanner error: %v", err)
		} else {
			errChan <- fmt.Errorf("server closed stdout")
		}
	}()

	select {
	case resp := <-done:
		return resp
	case err := <-errChan:
		require.FailNow(t, "Error reading response", err.Error())
	case <-ctx.Done():
		require.FailNow(t, "Timeout waiting for response")
	}
	return MCPResponse{}
}

// toolText returns the first text content of a tools/call result
func toolText(t *testing.T, resp MCPResponse) string {
	require.Nil(t, resp.Error, "tools/call should not return a protocol error")

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &result))
	require.NotEmpty(t, result.Content, "Content array should not be empty")
	require.False(t, result.IsError, "Tool returned an error: %s", result.Content[0].Text)
	return result.Content[0].Text
}

func (s *MCPServerProcess) initialize(t *testing.T) {
	resp := s.sendRequest(t, MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
		Params: map[string]any{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
			"clientInfo": map[string]any{
				"name":    "integration-test",
				"version": "1.0.0",
			},
		},
	})
	require.Nil(t, resp.Error, "MCP initialize should not return an error")
}

// TestMCPServerIntegration drives vooshi mcp against testdata/example
func TestMCPServerIntegration(t *testing.T) {
	workspaceRoot, err := filepath.Abs("../../testdata/example")
	require.NoError(t, err)

	var mu sync.Mutex
	var received []reporter.AnalysisPayload
	endpoint := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload reporter.AnalysisPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
			mu.Lock()
			received = append(received, payload)
			mu.Unlock()
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer endpoint.Close()

	server := startMCPServer(t, workspaceRoot, endpoint.URL)
	defer server.stop()

	server.initialize(t)

	t.Run("ListTools", func(t *testing.T) {
		resp := server.sendRequest(t, MCPRequest{JSONRPC: "2.0", ID: 2, Method: "tools/list"})
		require.Nil(t, resp.Error, "List tools should not return an error")

		var result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		}
		require.NoError(t, json.Unmarshal(resp.Result, &result))

		var names []string
		for _, tool := range result.Tools {
			names = append(names, tool.Name)
		}
		assert.ElementsMatch(t, []string{"send_snippet", "extract_context"}, names)
	})

	t.Run("ExtractContext", func(t *testing.T) {
		resp := server.sendRequest(t, MCPRequest{
			JSONRPC: "2.0",
			ID:      3,
			Method:  "tools/call",
			Params: map[string]any{
				"name": "extract_context",
				"arguments": map[string]any{
					"anchor": "vooshi://calculator.go#17:3",
				},
			},
		})

		var result results.ExtractContextToolResult
		require.NoError(t, json.Unmarshal([]byte(toolText(t, resp)), &result))
		assert.Equal(t, "Add", result.Context.SymbolName)
		assert.True(t, result.Context.IsFunction)
		assert.Equal(t, 16, result.Context.Location.DisplayStartLine)
		assert.Equal(t, 19, result.Context.Location.DisplayEndLine)
	})

	t.Run("SendSnippet", func(t *testing.T) {
		resp := server.sendRequest(t, MCPRequest{
			JSONRPC: "2.0",
			ID:      4,
			Method:  "tools/call",
			Params: map[string]any{
				"name": "send_snippet",
				"arguments": map[string]any{
					"file_path": "calculator.go",
					"line":      16,
					"character": 2,
				},
			},
		})

		var result results.SendSnippetToolResult
		require.NoError(t, json.Unmarshal([]byte(toolText(t, resp)), &result))
		assert.True(t, result.Queued)
		assert.Equal(t, endpoint.URL+"/analyze", result.Endpoint)

		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return len(received) == 1
		}, 5*time.Second, 20*time.Millisecond, "Endpoint should receive the snippet")

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, filepath.Join(workspaceRoot, "calculator.go"), received[0].Filename)
		assert.True(t, received[0].IsFunction)
	})
}
