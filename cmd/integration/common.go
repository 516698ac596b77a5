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

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/palantir/k8s-spark-executor-resources/cmd"
	config2 "github.com/palantir/k8s-spark-executor-resources/config"
	"github.com/palantir/witchcraft-go-logging/wlog"
	"github.com/palantir/witchcraft-go-logging/wlog/svclog/svc1log"
	"github.com/palantir/witchcraft-go-logging/wlog/wapp"
	"github.com/palantir/witchcraft-go-server/config"
	"github.com/palantir/witchcraft-go-server/witchcraft"
	"github.com/palantir/witchcraft-go-server/wrouter"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"k8s.io/client-go/kubernetes"
)

// TestSetup returns values needed for setting up the server
type TestSetup struct {
	routes  []wrouter.RouteSpec
	cleanup func()
}

// setUpServer sets up a WitchcraftServer and invokes the init function with the kubernetes client
func setUpServer(ctx context.Context, t *testing.T, installConfig config2.Install, kubeClient kubernetes.Interface) TestSetup {
	var routes []wrouter.RouteSpec
	initialized := atomic.NewBool(false)
	server := witchcraft.NewServer().
		WithInstallConfigType(config2.Install{}).
		WithInstallConfig(installConfig).
		WithSelfSignedCertificate().
		WithRuntimeConfig(config.Runtime{
			LoggerConfig: &config.LoggerConfig{
				Level: wlog.DebugLevel,
			},
		}).
		WithDisableGoRuntimeMetrics().
		WithInitFunc(func(ctx context.Context, initInfo witchcraft.InitInfo) (func(), error) {
			f := func(ctx context.Context) error {
				err := cmd.InitServerWithClient(ctx, initInfo, kubeClient)
				require.NoError(t, err)
				routes = initInfo.Router.RegisteredRoutes()
				initialized.Store(true)
				return err
			}
			err := wapp.RunWithFatalLogging(ctx, f)
			require.NoError(t, err)
			return nil, err
		})
	go func() {
		err := server.Start()
		require.NoError(t, err)
	}()
	waitForCondition(ctx, t, initialized.Load)

	cleanup := func() {
		if err := server.Close(); err != nil {
			svc1log.FromContext(ctx).Error(err.Error(), svc1log.Stacktrace(err))
		}
	}

	return TestSetup{
		routes:  routes,
		cleanup: cleanup,
	}
}

func waitForCondition(ctx context.Context, t *testing.T, condition func() bool) {
	ticker := time.NewTicker(time.Millisecond * 10)
	ctx, cancel := context.WithDeadline(ctx, time.Now().Add(time.Second*5))
	defer ticker.Stop()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			require.Fail(t, "Did not resolve condition")
			return
		case <-ticker.C:
			if condition() {
				return
			}
		}
	}
}
