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
	"errors"
	"time"

	"github.com/palantir/k8s-spark-executor-resources/internal"
	"github.com/palantir/k8s-spark-executor-resources/internal/common"
	"github.com/palantir/k8s-spark-executor-resources/internal/events"
	"github.com/palantir/k8s-spark-executor-resources/internal/metrics"
	"github.com/palantir/pkg/retry"
	werror "github.com/palantir/witchcraft-go-error"
	"github.com/palantir/witchcraft-go-logging/wlog/svclog/svc1log"
	v1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	corev1 "k8s.io/client-go/kubernetes/typed/core/v1"
)

const (
	applyRetryCount          = 5
	applyRetryInitialBackoff = 100 * time.Millisecond
)

const (
	successApplied = "success"
	failureGet     = "failure-get"
	failureUpdate  = "failure-update"
	failureDriver  = "failure-non-driver-pod"
)

// ErrNotDriver is the root cause of errors returned when applying executor resources to a pod that is not a spark driver
var ErrNotDriver = errors.New("pod is not a spark driver")

// Applier writes executor resource annotations onto live driver pods
type Applier struct {
	podClient corev1.PodsGetter
}

// NewApplier creates an Applier using the given pod client
func NewApplier(podClient corev1.PodsGetter) *Applier {
	return &Applier{podClient: podClient}
}

// Apply merges the executor resource annotations into the driver pod and updates it. Only the keys present in
// annotations are overwritten, everything else on the pod is left untouched. Conflicting updates are retried
// against a freshly fetched pod.
func (a *Applier) Apply(ctx context.Context, namespace, name string, annotations map[string]string) (*v1.Pod, error) {
	ctx = svc1log.WithLoggerParams(ctx, svc1log.SafeParams(internal.PodSafeParamsFromName(name, namespace)))
	var (
		result   *v1.Pod
		outcome  = failureGet
		applyErr error
	)
	err := retry.Do(ctx, func() error {
		result, outcome, applyErr = a.tryApply(ctx, namespace, name, annotations)
		if applyErr != nil && k8serrors.IsConflict(werror.RootCause(applyErr)) {
			svc1log.FromContext(ctx).Info("conflict updating driver pod, retrying", svc1log.Stacktrace(applyErr))
			return applyErr
		}
		return nil
	}, retry.WithMaxAttempts(applyRetryCount), retry.WithInitialBackoff(applyRetryInitialBackoff))
	if err == nil {
		err = applyErr
	}
	metrics.ReportApply(ctx, outcome)
	if err != nil {
		return nil, err
	}
	appID := result.Labels[common.SparkAppIDLabel]
	svc1log.FromContext(ctx).Info("applied executor resources to driver", svc1log.SafeParam("appID", appID))
	requests, err := decodeRequests(result)
	if err != nil {
		svc1log.FromContext(ctx).Warn("driver holds unreadable executor resource requests", svc1log.Stacktrace(err))
	}
	executorResources, err := ExecutorResources(result)
	if err != nil {
		svc1log.FromContext(ctx).Debug("driver does not declare executor cores and memory", svc1log.SafeParam("reason", err.Error()))
		executorResources = nil
	}
	events.EmitExecutorResourcesApplied(ctx, appID, result, len(requests), executorResources)
	return result, nil
}

func (a *Applier) tryApply(ctx context.Context, namespace, name string, annotations map[string]string) (*v1.Pod, string, error) {
	pod, err := a.podClient.Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, failureGet, werror.Wrap(err, "failed to get driver pod")
	}
	if pod.Labels[common.SparkRoleLabel] != common.Driver {
		return nil, failureDriver, werror.Wrap(ErrNotDriver, "can not apply executor resources", werror.SafeParam("expectedLabel", common.SparkRoleLabel))
	}
	updated := pod.DeepCopy()
	if updated.Annotations == nil {
		updated.Annotations = map[string]string{}
	}
	for key, value := range annotations {
		updated.Annotations[key] = value
	}
	result, err := a.podClient.Pods(namespace).Update(ctx, updated, metav1.UpdateOptions{})
	if err != nil {
		return nil, failureUpdate, werror.Wrap(err, "failed to update driver pod")
	}
	return result, successApplied, nil
}
