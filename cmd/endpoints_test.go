// Copyright (c) 2021 Palantir Technologies. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/palantir/k8s-spark-executor-resources/config"
	"github.com/palantir/k8s-spark-executor-resources/internal/annotations"
	"github.com/palantir/k8s-spark-executor-resources/internal/common"
	"github.com/palantir/k8s-spark-executor-resources/internal/executor"
	"github.com/palantir/k8s-spark-executor-resources/internal/profile"
	"github.com/palantir/witchcraft-go-server/wrouter"
	"github.com/palantir/witchcraft-go-server/wrouter/whttprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	k8sfake "k8s.io/client-go/kubernetes/fake"
)

var testProfiles = map[string]config.Profile{
	"gpu": {
		Memory: "4g",
		Cores:  2,
		Resources: []config.CustomResource{{
			Name:            "gpu",
			Amount:          1,
			DiscoveryScript: "/opt/getGpus",
			Vendor:          "nvidia.com",
		}},
	},
	"broken": {
		Memory: "4x",
	},
}

func newTestServer(t *testing.T, kubeClient kubernetes.Interface) *httptest.Server {
	router := wrouter.New(whttprouter.New())
	resource := newExecutorResourcesResource(testProfiles, annotations.NewApplier(kubeClient.CoreV1()))
	require.NoError(t, registerExecutorResourcesEndpoints(router, resource))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func decodeRendered(t *testing.T, resp *http.Response) profile.Rendered {
	defer resp.Body.Close()
	var rendered profile.Rendered
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rendered))
	return rendered
}

func TestRenderEndpoint(t *testing.T) {
	server := newTestServer(t, k8sfake.NewSimpleClientset())
	tests := []struct {
		name         string
		body         string
		expectedCode int
	}{{
		name:         "renders a profile",
		body:         `{"memory":"2g","memoryOverhead":"512m","cores":4}`,
		expectedCode: http.StatusOK,
	}, {
		name:         "rejects malformed memory",
		body:         `{"memory":"2x"}`,
		expectedCode: http.StatusBadRequest,
	}, {
		name:         "rejects malformed body",
		body:         `{"memory":`,
		expectedCode: http.StatusBadRequest,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/executor-resources/render", "application/json", bytes.NewBufferString(test.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, test.expectedCode, resp.StatusCode)
		})
	}

	resp, err := http.Post(server.URL+"/executor-resources/render", "application/json",
		bytes.NewBufferString(`{"memory":"2g","memoryOverhead":"512m","cores":4}`))
	require.NoError(t, err)
	rendered := decodeRendered(t, resp)
	assert.Equal(t, int64(4), rendered.Requests[executor.CoresKey].Amount)
	assert.Equal(t, "2560Mi", rendered.Annotations[common.ExecutorMemory])
}

func TestGetProfileEndpoint(t *testing.T) {
	server := newTestServer(t, k8sfake.NewSimpleClientset())

	resp, err := http.Get(server.URL + "/executor-resources/profiles/gpu")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rendered := decodeRendered(t, resp)
	assert.Equal(t, executor.RequestDetails{
		ResourceName:    "gpu",
		Amount:          1,
		DiscoveryScript: "/opt/getGpus",
		Vendor:          "nvidia.com",
	}, rendered.Requests["gpu"])
	assert.Equal(t, "2", rendered.Annotations[common.ExecutorCPU])
	assert.Equal(t, "4Gi", rendered.Annotations[common.ExecutorMemory])

	for path, expectedCode := range map[string]int{
		"/executor-resources/profiles/missing": http.StatusNotFound,
		"/executor-resources/profiles/broken":  http.StatusBadRequest,
	} {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, expectedCode, resp.StatusCode, path)
	}
}

func TestApplyProfileEndpoint(t *testing.T) {
	kubeClient := k8sfake.NewSimpleClientset(
		&v1.Pod{ObjectMeta: metav1.ObjectMeta{
			Name:      "driver",
			Namespace: "spark",
			Labels:    map[string]string{common.SparkRoleLabel: common.Driver},
		}},
		&v1.Pod{ObjectMeta: metav1.ObjectMeta{
			Name:      "executor",
			Namespace: "spark",
			Labels:    map[string]string{common.SparkRoleLabel: "executor"},
		}},
	)
	server := newTestServer(t, kubeClient)
	tests := []struct {
		name         string
		path         string
		expectedCode int
	}{{
		name:         "applies profile to driver",
		path:         "/executor-resources/namespaces/spark/drivers/driver?profile=gpu",
		expectedCode: http.StatusOK,
	}, {
		name:         "requires profile",
		path:         "/executor-resources/namespaces/spark/drivers/driver",
		expectedCode: http.StatusBadRequest,
	}, {
		name:         "unknown profile",
		path:         "/executor-resources/namespaces/spark/drivers/driver?profile=missing",
		expectedCode: http.StatusNotFound,
	}, {
		name:         "unknown driver",
		path:         "/executor-resources/namespaces/spark/drivers/missing?profile=gpu",
		expectedCode: http.StatusNotFound,
	}, {
		name:         "not a driver",
		path:         "/executor-resources/namespaces/spark/drivers/executor?profile=gpu",
		expectedCode: http.StatusBadRequest,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+test.path, "application/json", nil)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, test.expectedCode, resp.StatusCode)
		})
	}

	pod, err := kubeClient.CoreV1().Pods("spark").Get(context.Background(), "driver", metav1.GetOptions{})
	require.NoError(t, err)
	executorResources, err := annotations.ExecutorResources(pod)
	require.NoError(t, err)
	assert.Equal(t, int64(2), executorResources.CPU.Value())
	assert.Equal(t, int64(4*1024*1024*1024), executorResources.Memory.Value())
	assert.Equal(t, int64(1), executorResources.NvidiaGPU.Value())
}
