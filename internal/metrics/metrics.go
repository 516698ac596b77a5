// Copyright (c) 2019 Palantir Technologies. All rights reserved.
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

package metrics

import (
	"context"

	"github.com/palantir/k8s-spark-executor-resources/internal/executor"
	"github.com/palantir/pkg/metrics"
	"github.com/palantir/witchcraft-go-logging/wlog/svclog/svc1log"
)

const (
	requestCounter  = "foundry.spark.executor.resources.requests"
	requestAmount   = "foundry.spark.executor.resources.amount"
	memoryHistogram = "foundry.spark.executor.resources.memory"
	applyCounter    = "foundry.spark.executor.resources.apply"
)

const (
	resourceTagName = "resource"
	outcomeTagName  = "outcome"
)

func tagWithDefault(ctx context.Context, key, value, defaultValue string) metrics.Tag {
	tag, err := metrics.NewTag(key, value)
	if err == nil {
		return tag
	}
	svc1log.FromContext(ctx).Error("failed to create metrics tag",
		svc1log.SafeParam("key", key),
		svc1log.SafeParam("value", value),
		svc1log.SafeParam("reason", err.Error()))
	return metrics.MustNewTag(key, defaultValue)
}

// ResourceTag returns a resource name tag
func ResourceTag(ctx context.Context, resourceName string) metrics.Tag {
	return tagWithDefault(ctx, resourceTagName, resourceName, "unspecified")
}

// OutcomeTag returns an outcome tag
func OutcomeTag(ctx context.Context, outcome string) metrics.Tag {
	return tagWithDefault(ctx, outcomeTagName, outcome, "unspecified")
}

// ReportRequests marks a declaration of each of the given executor resource requests
func ReportRequests(ctx context.Context, requests map[string]executor.Request) {
	registry := metrics.FromContext(ctx)
	for name, request := range requests {
		resourceTag := ResourceTag(ctx, name)
		registry.Counter(requestCounter, resourceTag).Inc(1)
		if !executor.IsMemoryKey(name) {
			registry.Histogram(requestAmount, resourceTag).Update(request.Amount())
		}
	}
	var memory int64
	for _, key := range []string{executor.MemoryKey, executor.MemoryOverheadKey, executor.PysparkMemoryKey} {
		memory += requests[key].Amount()
	}
	if memory > 0 {
		registry.Histogram(memoryHistogram).Update(memory)
	}
}

// ReportApply marks an attempt to apply executor resources to a driver pod
func ReportApply(ctx context.Context, outcome string) {
	metrics.FromContext(ctx).Counter(applyCounter, OutcomeTag(ctx, outcome)).Inc(1)
}
