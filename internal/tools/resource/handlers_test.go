// Package resource provides tests for the generic resource tool handlers.
package resource

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/kubedeck/kubedeck/internal/k8s"
	"github.com/kubedeck/kubedeck/internal/server"
	"github.com/kubedeck/kubedeck/internal/tools/testdata"
	"github.com/kubedeck/kubedeck/internal/watch"
)

func newTestServerContext(t *testing.T, client *testdata.MockK8sClient, opts ...server.Option) *server.ServerContext {
	t.Helper()

	allOpts := append([]server.Option{
		server.WithK8sClient(client),
		server.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		server.WithEventSink(watch.SinkFunc(func(ctx context.Context, event string, payload any) error {
			return nil
		})),
	}, opts...)

	sc, err := server.NewServerContext(context.Background(), allOpts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newRequest(args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return textContent.Text
}

func podObject(name, namespace string) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "Pod",
		"metadata": map[string]interface{}{
			"name":      name,
			"namespace": namespace,
		},
		"status": map[string]interface{}{"phase": "Running"},
	}}
}

func secretObject(name, namespace string) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]interface{}{
		"apiVersion": "v1",
		"kind":       "Secret",
		"type":       "Opaque",
		"metadata": map[string]interface{}{
			"name":      name,
			"namespace": namespace,
		},
		"data": map[string]interface{}{
			"password": "aHVudGVyMg==",
		},
	}}
}

func TestHandleResourceGet_Success(t *testing.T) {
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		GetResourceFunc: func(ctx context.Context, namespace, resourceType, name string) (*unstructured.Unstructured, error) {
			assert.Equal(t, "default", namespace)
			assert.Equal(t, "pod", resourceType)
			return podObject(name, namespace), nil
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleResourceGet(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "pod",
		"name":         "web-1",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var obj map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &obj))
	assert.Equal(t, "Pod", obj["kind"])
}

func TestHandleResourceGet_MissingArgs(t *testing.T) {
	sc := newTestServerContext(t, &testdata.MockK8sClient{Current: "kind-dev"})

	tests := []struct {
		name      string
		args      map[string]interface{}
		wantError string
	}{
		{"missing resourceType", map[string]interface{}{"name": "web-1"}, "resourceType is required"},
		{"missing name", map[string]interface{}{"resourceType": "pod"}, "name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleResourceGet(context.Background(), newRequest(tt.args), sc)
			require.NoError(t, err)
			require.True(t, result.IsError)
			assert.Contains(t, resultText(t, result), tt.wantError)
		})
	}
}

func TestHandleResourceGet_MasksSecretData(t *testing.T) {
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		GetResourceFunc: func(ctx context.Context, namespace, resourceType, name string) (*unstructured.Unstructured, error) {
			return secretObject(name, namespace), nil
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleResourceGet(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "secret",
		"name":         "db-credentials",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, RedactedValue)
	assert.NotContains(t, text, "aHVudGVyMg==")
}

func TestHandleResourceGet_RevealSkipsMasking(t *testing.T) {
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		GetResourceFunc: func(ctx context.Context, namespace, resourceType, name string) (*unstructured.Unstructured, error) {
			return secretObject(name, namespace), nil
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleResourceGet(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "secret",
		"name":         "db-credentials",
		"reveal":       true,
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "aHVudGVyMg==")
}

func TestHandleResourceGet_Error(t *testing.T) {
	client := &testdata.MockK8sClient{
		GetResourceFunc: func(ctx context.Context, namespace, resourceType, name string) (*unstructured.Unstructured, error) {
			return nil, errors.New(`pods "web-9" not found`)
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleResourceGet(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "pod",
		"name":         "web-9",
	}), sc)
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Failed to get resource")
}

func TestHandleResourceList_Success(t *testing.T) {
	var gotOpts k8s.ListOptions
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		ListResourcesFunc: func(ctx context.Context, namespace, resourceType string, opts k8s.ListOptions) (*unstructured.UnstructuredList, error) {
			gotOpts = opts
			list := &unstructured.UnstructuredList{
				Items: []unstructured.Unstructured{
					*podObject("web-1", namespace),
					*podObject("web-2", namespace),
				},
			}
			list.SetContinue("next-page")
			return list, nil
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleResourceList(context.Background(), newRequest(map[string]interface{}{
		"resourceType":  "pods",
		"labelSelector": "app=web",
		"allNamespaces": true,
		"limit":         float64(50),
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, "app=web", gotOpts.LabelSelector)
	assert.True(t, gotOpts.AllNamespaces)
	assert.Equal(t, int64(50), gotOpts.Limit)

	var response listResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))
	assert.Equal(t, 2, response.Count)
	assert.Equal(t, "next-page", response.Continue)
}

func TestHandleResourceList_MasksSecrets(t *testing.T) {
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		ListResourcesFunc: func(ctx context.Context, namespace, resourceType string, opts k8s.ListOptions) (*unstructured.UnstructuredList, error) {
			return &unstructured.UnstructuredList{
				Items: []unstructured.Unstructured{*secretObject("db-credentials", namespace)},
			}, nil
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleResourceList(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "secrets",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, RedactedValue)
	assert.NotContains(t, text, "aHVudGVyMg==")
}

func TestHandleResourceList_Error(t *testing.T) {
	client := &testdata.MockK8sClient{
		ListResourcesFunc: func(ctx context.Context, namespace, resourceType string, opts k8s.ListOptions) (*unstructured.UnstructuredList, error) {
			return nil, k8s.ErrNoActiveContext
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleResourceList(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "pods",
	}), sc)
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "No active context")
}

func TestHandleResourceDelete_Success(t *testing.T) {
	var deleted string
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		DeleteResourceFunc: func(ctx context.Context, namespace, resourceType, name string) error {
			deleted = namespace + "/" + name
			return nil
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleResourceDelete(context.Background(), newRequest(map[string]interface{}{
		"namespace":    "staging",
		"resourceType": "configmap",
		"name":         "app-config",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, "staging/app-config", deleted)
	assert.Contains(t, resultText(t, result), "Successfully deleted configmap: app-config")
}

func TestHandleResourceDelete_BlockedInReadOnlyMode(t *testing.T) {
	sc := newTestServerContext(t, &testdata.MockK8sClient{Current: "kind-dev"}, server.WithReadOnly(true))

	result, err := handleResourceDelete(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "configmap",
		"name":         "app-config",
	}), sc)
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "read-only mode")
}

func TestHandleResourceYAMLGet_Success(t *testing.T) {
	manifest := "apiVersion: v1\nkind: Pod\nmetadata:\n  name: web-1\n"
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		GetResourceYAMLFunc: func(ctx context.Context, namespace, resourceType, name string) (string, error) {
			return manifest, nil
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleResourceYAMLGet(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "pod",
		"name":         "web-1",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, manifest, resultText(t, result))
}

func TestHandleResourceYAMLGet_MasksSecret(t *testing.T) {
	manifest := "apiVersion: v1\nkind: Secret\nmetadata:\n  name: db-credentials\ndata:\n  password: aHVudGVyMg==\n"
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		GetResourceYAMLFunc: func(ctx context.Context, namespace, resourceType, name string) (string, error) {
			return manifest, nil
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleResourceYAMLGet(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "secret",
		"name":         "db-credentials",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	text := resultText(t, result)
	assert.Contains(t, text, RedactedValue)
	assert.NotContains(t, text, "aHVudGVyMg==")

	revealed, err := handleResourceYAMLGet(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "secret",
		"name":         "db-credentials",
		"reveal":       true,
	}), sc)
	require.NoError(t, err)
	assert.Contains(t, resultText(t, revealed), "aHVudGVyMg==")
}

func TestHandleResourceYAMLUpdate_Success(t *testing.T) {
	manifest := "apiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: app-config\ndata:\n  key: value\n"
	var gotManifest string
	client := &testdata.MockK8sClient{
		Current: "kind-dev",
		UpdateResourceYAMLFunc: func(ctx context.Context, namespace, resourceType, name, m string) error {
			gotManifest = m
			return nil
		},
	}
	sc := newTestServerContext(t, client)

	result, err := handleResourceYAMLUpdate(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "configmap",
		"name":         "app-config",
		"manifest":     manifest,
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Equal(t, manifest, gotManifest)
	assert.Contains(t, resultText(t, result), "Successfully updated configmap: app-config")
}

func TestHandleResourceYAMLUpdate_MissingManifest(t *testing.T) {
	sc := newTestServerContext(t, &testdata.MockK8sClient{Current: "kind-dev"})

	result, err := handleResourceYAMLUpdate(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "configmap",
		"name":         "app-config",
	}), sc)
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "manifest is required")
}

func TestHandleResourceYAMLUpdate_BlockedInReadOnlyMode(t *testing.T) {
	sc := newTestServerContext(t, &testdata.MockK8sClient{Current: "kind-dev"}, server.WithReadOnly(true))

	result, err := handleResourceYAMLUpdate(context.Background(), newRequest(map[string]interface{}{
		"resourceType": "configmap",
		"name":         "app-config",
		"manifest":     "kind: ConfigMap",
	}), sc)
	require.NoError(t, err)
	require.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Update operations are not allowed in read-only mode")
}
