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

package profile

import (
	"context"

	"github.com/palantir/k8s-spark-executor-resources/config"
	"github.com/palantir/k8s-spark-executor-resources/internal"
	"github.com/palantir/k8s-spark-executor-resources/internal/annotations"
	"github.com/palantir/k8s-spark-executor-resources/internal/executor"
	"github.com/palantir/k8s-spark-executor-resources/internal/metrics"
	werror "github.com/palantir/witchcraft-go-error"
	"github.com/palantir/witchcraft-go-logging/wlog/svclog/svc1log"
	v1 "k8s.io/api/core/v1"
)

// Rendered is a profile declared against the spark scheduler, with the driver annotations that carry it
type Rendered struct {
	Requests    map[string]executor.RequestDetails `json:"requests"`
	Annotations map[string]string                  `json:"annotations"`
}

// Declare adds every resource of the profile to requests
func Declare(requests *executor.Requests, p config.Profile) *executor.Requests {
	if p.Memory != "" {
		requests.Memory(p.Memory)
	}
	if p.MemoryOverhead != "" {
		requests.MemoryOverhead(p.MemoryOverhead)
	}
	if p.PysparkMemory != "" {
		requests.PysparkMemory(p.PysparkMemory)
	}
	if p.Cores != 0 {
		requests.Cores(p.Cores)
	}
	for _, r := range p.Resources {
		requests.Resource(r.Name, r.Amount, r.DiscoveryScript, r.Vendor)
	}
	return requests
}

// Render declares the profile on an empty driver pod and returns the resulting requests and annotations
func Render(ctx context.Context, p config.Profile) (*Rendered, error) {
	handle, err := annotations.NewPodHandle(&v1.Pod{})
	if err != nil {
		return nil, err
	}
	declared, err := Declare(executor.NewRequests(executor.NewDelegatingSink(handle), nil), p).Requests()
	if err != nil {
		return nil, werror.Wrap(err, "failed to declare executor resources")
	}
	metrics.ReportRequests(ctx, declared)

	logger := svc1log.FromContext(ctx)
	requests := make(map[string]executor.RequestDetails, len(declared))
	for key, request := range declared {
		logger.Debug("declared executor resource", svc1log.SafeParams(internal.RequestSafeParams(request)))
		requests[key] = request.Details()
	}
	return &Rendered{
		Requests:    requests,
		Annotations: handle.Annotations(),
	}, nil
}
