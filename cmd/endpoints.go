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
	"encoding/json"
	"net/http"

	"github.com/palantir/k8s-spark-executor-resources/config"
	"github.com/palantir/k8s-spark-executor-resources/internal"
	"github.com/palantir/k8s-spark-executor-resources/internal/annotations"
	"github.com/palantir/k8s-spark-executor-resources/internal/profile"
	werror "github.com/palantir/witchcraft-go-error"
	"github.com/palantir/witchcraft-go-logging/wlog/svclog/svc1log"
	"github.com/palantir/witchcraft-go-server/rest"
	"github.com/palantir/witchcraft-go-server/wrouter"
	"k8s.io/apimachinery/pkg/api/errors"
)

const (
	profileParam   = "profile"
	namespaceParam = "namespace"
	driverParam    = "driver"
)

type executorResourcesResource struct {
	profiles map[string]config.Profile
	applier  *annotations.Applier
}

func newExecutorResourcesResource(profiles map[string]config.Profile, applier *annotations.Applier) *executorResourcesResource {
	return &executorResourcesResource{
		profiles: profiles,
		applier:  applier,
	}
}

func registerExecutorResourcesEndpoints(r wrouter.Router, resource *executorResourcesResource) error {
	if err := r.Post("/executor-resources/render", newJSONHandler(resource.render)); err != nil {
		return werror.Wrap(err, "failed to register handler")
	}
	if err := r.Get("/executor-resources/profiles/{profile}", newJSONHandler(resource.getProfile),
		wrouter.SafePathParams(profileParam)); err != nil {
		return werror.Wrap(err, "failed to register handler")
	}
	if err := r.Post("/executor-resources/namespaces/{namespace}/drivers/{driver}", newJSONHandler(resource.applyProfile),
		wrouter.SafePathParams(namespaceParam, driverParam), wrouter.SafeQueryParams(profileParam)); err != nil {
		return werror.Wrap(err, "failed to register handler")
	}
	return nil
}

func newJSONHandler(fn func(http.ResponseWriter, *http.Request) error) http.Handler {
	return rest.NewJSONHandler(fn, rest.StatusCodeMapper, rest.ErrHandler)
}

func (e *executorResourcesResource) render(rw http.ResponseWriter, req *http.Request) error {
	var p config.Profile
	if err := json.NewDecoder(req.Body).Decode(&p); err != nil {
		return rest.NewError(werror.Wrap(err, "failed to decode profile"), rest.StatusCode(http.StatusBadRequest))
	}
	rendered, err := profile.Render(req.Context(), p)
	if err != nil {
		return rest.NewError(err, rest.StatusCode(http.StatusBadRequest))
	}
	rest.WriteJSONResponse(rw, rendered, http.StatusOK)
	return nil
}

func (e *executorResourcesResource) getProfile(rw http.ResponseWriter, req *http.Request) error {
	rendered, err := e.renderNamedProfile(req, wrouter.PathParams(req)[profileParam])
	if err != nil {
		return err
	}
	rest.WriteJSONResponse(rw, rendered, http.StatusOK)
	return nil
}

func (e *executorResourcesResource) applyProfile(rw http.ResponseWriter, req *http.Request) error {
	name := req.URL.Query().Get(profileParam)
	if name == "" {
		return rest.NewError(werror.Error("profile query parameter is required"), rest.StatusCode(http.StatusBadRequest))
	}
	rendered, err := e.renderNamedProfile(req, name)
	if err != nil {
		return err
	}
	pathParams := wrouter.PathParams(req)
	pod, err := e.applier.Apply(req.Context(), pathParams[namespaceParam], pathParams[driverParam], rendered.Annotations)
	switch {
	case err == nil:
	case errors.IsNotFound(werror.RootCause(err)):
		return rest.NewError(err, rest.StatusCode(http.StatusNotFound))
	case werror.RootCause(err) == annotations.ErrNotDriver:
		return rest.NewError(err, rest.StatusCode(http.StatusBadRequest))
	default:
		return err
	}
	svc1log.FromContext(req.Context()).Info("annotated driver with executor resource profile",
		svc1log.SafeParams(internal.PodSafeParams(*pod)), svc1log.SafeParam(profileParam, name))
	rest.WriteJSONResponse(rw, rendered, http.StatusOK)
	return nil
}

func (e *executorResourcesResource) renderNamedProfile(req *http.Request, name string) (*profile.Rendered, error) {
	p, ok := e.profiles[name]
	if !ok {
		return nil, rest.NewError(werror.Error("executor resource profile not found", werror.SafeParam(profileParam, name)),
			rest.StatusCode(http.StatusNotFound))
	}
	rendered, err := profile.Render(req.Context(), p)
	if err != nil {
		return nil, rest.NewError(err, rest.StatusCode(http.StatusBadRequest))
	}
	return rendered, nil
}
