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
	"context"
	"encoding/json"
	"os"

	"github.com/palantir/k8s-spark-executor-resources/config"
	"github.com/palantir/k8s-spark-executor-resources/internal/profile"
	werror "github.com/palantir/witchcraft-go-error"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var (
	renderConfigPath string

	renderCmd = &cobra.Command{
		Use:   "render [profile]",
		Short: "prints the driver annotations of an executor resource profile declared in the install config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			install, err := readInstallConfig(renderConfigPath)
			if err != nil {
				return err
			}
			p, ok := install.Profiles[args[0]]
			if !ok {
				return werror.Error("executor resource profile not found", werror.SafeParam("profile", args[0]))
			}
			rendered, err := profile.Render(context.Background(), p)
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(rendered)
		},
	}
)

func init() {
	renderCmd.Flags().StringVar(&renderConfigPath, "config", "var/conf/install.yml", "path to the install config")
	rootCmd.AddCommand(renderCmd)
}

func readInstallConfig(path string) (config.Install, error) {
	var install config.Install
	bytes, err := os.ReadFile(path)
	if err != nil {
		return install, werror.Wrap(err, "failed to read install config", werror.SafeParam("path", path))
	}
	if err := yaml.Unmarshal(bytes, &install); err != nil {
		return install, werror.Wrap(err, "failed to unmarshal install config", werror.SafeParam("path", path))
	}
	return install, nil
}
