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

package cmd

import (
	"context"

	"github.com/palantir/k8s-spark-executor-resources/config"
	"github.com/palantir/k8s-spark-executor-resources/internal/annotations"
	"github.com/palantir/witchcraft-go-logging/wlog/svclog/svc1log"
	"github.com/palantir/witchcraft-go-server/witchcraft"
	"github.com/spf13/cobra"
	"k8s.io/client-go/kubernetes"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "runs the executor resources server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return New().Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func initServer(ctx context.Context, info witchcraft.InitInfo) (func(), error) {
	install := info.InstallConfig.(config.Install)
	kubeClient, err := GetKubeClient(ctx, install)
	if err != nil {
		return nil, err
	}
	err = InitServerWithClient(ctx, info, kubeClient)
	return nil, err
}

// InitServerWithClient is exported for end to end testing
func InitServerWithClient(ctx context.Context, info witchcraft.InitInfo, kubeClient kubernetes.Interface) error {
	install := info.InstallConfig.(config.Install)
	svc1log.FromContext(ctx).Info("registering executor resource profiles", svc1log.SafeParam("profileCount", len(install.Profiles)))
	resource := newExecutorResourcesResource(install.Profiles, annotations.NewApplier(kubeClient.CoreV1()))
	return registerExecutorResourcesEndpoints(info.Router, resource)
}

// New creates and returns a witchcraft Server.
func New() *witchcraft.Server {
	return witchcraft.NewServer().
		WithInstallConfigType(config.Install{}).
		WithInstallConfigFromFile("var/conf/install.yml").
		// We do this in order to get witchcraft to honor the logging config, which it expects to be in runtime
		WithRuntimeConfigFromFile("var/conf/install.yml").
		WithECVKeyProvider(witchcraft.ECVKeyNoOp()).
		WithInitFunc(initServer).
		WithOrigin(svc1log.CallerPkg(0, 1))
}
