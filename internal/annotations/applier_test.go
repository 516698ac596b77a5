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

package annotations

import (
	"context"
	"fmt"
	"testing"

	"github.com/palantir/k8s-spark-executor-resources/internal/common"
	werror "github.com/palantir/witchcraft-go-error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	k8sfake "k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"
)

func driverPod(role string, annotations map[string]string) *v1.Pod {
	return &v1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "driver",
			Namespace: "spark",
			Labels: map[string]string{
				common.SparkRoleLabel:  role,
				common.SparkAppIDLabel: "appID1",
			},
			Annotations: annotations,
		},
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	client := k8sfake.NewSimpleClientset(driverPod(common.Driver, map[string]string{
		common.ExecutorCPU:    "8",
		common.ExecutorMemory: "16Gi",
		"unrelated":           "value",
	}))
	applier := NewApplier(client.CoreV1())

	_, err := applier.Apply(ctx, "spark", "driver", map[string]string{
		common.ExecutorMemory:    "2Gi",
		common.ExecutorResources: `{"memory":{"resourceName":"memory","amount":2147483648}}`,
	})
	require.NoError(t, err)

	pod, err := client.CoreV1().Pods("spark").Get(ctx, "driver", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		common.ExecutorCPU:       "8",
		common.ExecutorMemory:    "2Gi",
		common.ExecutorResources: `{"memory":{"resourceName":"memory","amount":2147483648}}`,
		"unrelated":              "value",
	}, pod.Annotations)
}

func TestApplyKeepsSparkAnnotations(t *testing.T) {
	ctx := context.Background()
	client := k8sfake.NewSimpleClientset(driverPod(common.Driver, map[string]string{
		common.ExecutorCPU:    "8",
		common.ExecutorMemory: "16Gi",
	}))
	handle, err := NewPodHandle(&v1.Pod{})
	require.NoError(t, err)
	require.NoError(t, handle.Resource("gpu", 1, "", "nvidia.com"))

	live, err := NewApplier(client.CoreV1()).Apply(ctx, "spark", "driver", handle.Annotations())
	require.NoError(t, err)
	assert.Equal(t, "8", live.Annotations[common.ExecutorCPU])
	assert.Equal(t, "16Gi", live.Annotations[common.ExecutorMemory])

	res, err := ExecutorResources(live)
	require.NoError(t, err)
	assert.Equal(t, int64(8), res.CPU.Value())
	assert.Equal(t, int64(1), res.NvidiaGPU.Value())
}

func TestApplyRetriesConflicts(t *testing.T) {
	ctx := context.Background()
	client := k8sfake.NewSimpleClientset(driverPod(common.Driver, nil))
	conflicts := 2
	updates := 0
	client.PrependReactor("update", "pods", func(action k8stesting.Action) (bool, runtime.Object, error) {
		updates++
		if conflicts > 0 {
			conflicts--
			return true, nil, errors.NewConflict(v1.Resource("pods"), "driver", fmt.Errorf("stale resource version"))
		}
		return false, nil, nil
	})

	live, err := NewApplier(client.CoreV1()).Apply(ctx, "spark", "driver", map[string]string{common.ExecutorCPU: "4"})
	require.NoError(t, err)
	assert.Equal(t, 3, updates)
	assert.Equal(t, "4", live.Annotations[common.ExecutorCPU])
}

func TestApplyDoesNotRetryOtherFailures(t *testing.T) {
	client := k8sfake.NewSimpleClientset(driverPod(common.Driver, nil))
	updates := 0
	client.PrependReactor("update", "pods", func(action k8stesting.Action) (bool, runtime.Object, error) {
		updates++
		return true, nil, errors.NewForbidden(v1.Resource("pods"), "driver", fmt.Errorf("denied"))
	})

	_, err := NewApplier(client.CoreV1()).Apply(context.Background(), "spark", "driver", map[string]string{common.ExecutorCPU: "4"})
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(werror.RootCause(err)))
	assert.Equal(t, 1, updates)
}

func TestApplyMissingPod(t *testing.T) {
	applier := NewApplier(k8sfake.NewSimpleClientset().CoreV1())
	_, err := applier.Apply(context.Background(), "spark", "driver", map[string]string{})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(werror.RootCause(err)))
}

func TestApplyNonDriver(t *testing.T) {
	applier := NewApplier(k8sfake.NewSimpleClientset(driverPod("executor", nil)).CoreV1())
	_, err := applier.Apply(context.Background(), "spark", "driver", map[string]string{})
	require.Error(t, err)
	assert.Equal(t, ErrNotDriver, werror.RootCause(err))
}
