// Copyright 2023 Versity Software
// This file is licensed under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package integration

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/versity/s3tests/debuglogger"
)

// signingID is the id of the sdk's request signing middleware
const signingID = "Signing"

// GetClientWith returns a main user client whose requests pass through
// the given interceptors, e.g. GetClientWith(WithHeaders(...)).
func (c *S3Conf) GetClientWith(interceptors ...func(*s3.Options)) *s3.Client {
	return c.GetClient(interceptors...)
}

// WithHeaders sets and removes request headers before the request is
// signed, so added headers are covered by the signature.
func WithHeaders(set map[string]string, remove ...string) func(*s3.Options) {
	mw := middleware.BuildMiddlewareFunc("s3testsHeaders",
		func(ctx context.Context, in middleware.BuildInput, next middleware.BuildHandler) (middleware.BuildOutput, middleware.Metadata, error) {
			if req, ok := in.Request.(*smithyhttp.Request); ok {
				updateHeaders(req, set, remove)
			}
			return next.HandleBuild(ctx, in)
		})

	return func(o *s3.Options) {
		o.APIOptions = append(o.APIOptions, func(stack *middleware.Stack) error {
			return stack.Build.Add(mw, middleware.After)
		})
	}
}

// WithHeadersAfterSign changes headers once the signature has been
// computed. Added headers are unsigned, replaced ones break the
// signature.
func WithHeadersAfterSign(set map[string]string, remove ...string) func(*s3.Options) {
	mw := middleware.FinalizeMiddlewareFunc("s3testsHeadersAfterSign",
		func(ctx context.Context, in middleware.FinalizeInput, next middleware.FinalizeHandler) (middleware.FinalizeOutput, middleware.Metadata, error) {
			if req, ok := in.Request.(*smithyhttp.Request); ok {
				updateHeaders(req, set, remove)
			}
			return next.HandleFinalize(ctx, in)
		})

	return func(o *s3.Options) {
		o.APIOptions = append(o.APIOptions, func(stack *middleware.Stack) error {
			return stack.Finalize.Add(mw, middleware.After)
		})
	}
}

// WithRawQuery appends raw query parameters the sdk would not send,
// e.g. "max-keys=blah". The parameters are signed.
func WithRawQuery(extra string) func(*s3.Options) {
	return beforeSigning("s3testsRawQuery", func(req *smithyhttp.Request) {
		if req.URL.RawQuery == "" {
			req.URL.RawQuery = extra
			return
		}
		req.URL.RawQuery += "&" + extra
	})
}

// WithPathRewrite replaces the first occurrence of old in the request
// path and host. It is how requests for names the sdk refuses to
// serialize, such as invalid bucket names, are sent.
func WithPathRewrite(old, new string) func(*s3.Options) {
	return beforeSigning("s3testsPathRewrite", func(req *smithyhttp.Request) {
		req.URL.Path = strings.Replace(req.URL.Path, old, new, 1)
		req.URL.RawPath = ""
		if strings.Contains(req.URL.Host, old) {
			req.URL.Host = strings.Replace(req.URL.Host, old, new, 1)
			req.Host = req.URL.Host
		}
	})
}

// beforeSigning runs fn after the endpoint has been resolved and
// right before the request is signed
func beforeSigning(id string, fn func(*smithyhttp.Request)) func(*s3.Options) {
	mw := middleware.FinalizeMiddlewareFunc(id,
		func(ctx context.Context, in middleware.FinalizeInput, next middleware.FinalizeHandler) (middleware.FinalizeOutput, middleware.Metadata, error) {
			if req, ok := in.Request.(*smithyhttp.Request); ok {
				fn(req)
				debuglogger.Logf("%v: %v %v", id, req.Method, req.URL.String())
			}
			return next.HandleFinalize(ctx, in)
		})

	return func(o *s3.Options) {
		o.APIOptions = append(o.APIOptions, func(stack *middleware.Stack) error {
			if err := stack.Finalize.Insert(mw, signingID, middleware.Before); err != nil {
				return fmt.Errorf("add %v middleware: %w", id, err)
			}
			return nil
		})
	}
}

func updateHeaders(req *smithyhttp.Request, set map[string]string, remove []string) {
	for k, v := range set {
		req.Header.Set(k, v)
	}
	for _, k := range remove {
		req.Header.Del(k)
	}
}
