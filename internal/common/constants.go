// Copyright (c) 2020 Palantir Technologies. All rights reserved.
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

package common

const (
	// SparkRoleLabel represents the label key for the spark-role of a pod
	SparkRoleLabel = "spark-role"
	// SparkAppIDLabel represents the label key for the spark application ID on a pod
	SparkAppIDLabel = "spark-app-id"
	// Driver represents the label value for a pod that identifies the pod as a spark driver
	Driver = "driver"
)

const (
	// ExecutorCPU represents the key of an annotation that describes how much cpu a spark executor requires
	ExecutorCPU = "spark-executor-cpu"
	// ExecutorMemory represents the key of an annotation that describes how much memory a spark executor requires
	ExecutorMemory = "spark-executor-mem"
	// ExecutorResources represents the key of an annotation that holds every executor resource request of a
	// spark application as JSON, keyed by resource name
	ExecutorResources = "spark-executor-resources"
)
