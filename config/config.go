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

package config

import (
	"github.com/palantir/witchcraft-go-server/config"
)

// Install contains the install time configuration of the server and kubernetes dependency
type Install struct {
	config.Install `yaml:",inline"`
	config.Runtime `yaml:",inline"`
	Kubeconfig     string  `yaml:"kube-config,omitempty"`
	QPS            float32 `yaml:"qps,omitempty"`
	Burst          int     `yaml:"burst,omitempty"`

	// Profiles are the named executor resource profiles drivers can be annotated with
	Profiles map[string]Profile `yaml:"profiles,omitempty"`
}

// Profile declares the resources every executor of a spark application requests. Memory amounts are
// size strings such as "4g" or "512m".
type Profile struct {
	Memory         string           `yaml:"memory,omitempty" json:"memory,omitempty"`
	MemoryOverhead string           `yaml:"memory-overhead,omitempty" json:"memoryOverhead,omitempty"`
	PysparkMemory  string           `yaml:"pyspark-memory,omitempty" json:"pysparkMemory,omitempty"`
	Cores          int              `yaml:"cores,omitempty" json:"cores,omitempty"`
	Resources      []CustomResource `yaml:"resources,omitempty" json:"resources,omitempty"`
}

// CustomResource is an executor resource other than cores and memory, such as gpu
type CustomResource struct {
	Name            string `yaml:"name" json:"name"`
	Amount          int64  `yaml:"amount" json:"amount"`
	DiscoveryScript string `yaml:"discovery-script,omitempty" json:"discoveryScript,omitempty"`
	Vendor          string `yaml:"vendor,omitempty" json:"vendor,omitempty"`
}
