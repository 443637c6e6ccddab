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
	"errors"
	"fmt"
	"io"
	rnd "math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/versity/s3tests/debuglogger"
	"github.com/versity/s3tests/fixture"
	"github.com/versity/s3tests/s3err"
)

const (
	shortTimeout = 30 * time.Second
	longTimeout  = 5 * time.Minute

	allUsersURI  = "http://acs.amazonaws.com/groups/global/AllUsers"
	authUsersURI = "http://acs.amazonaws.com/groups/global/AuthenticatedUsers"

	unsignedPayload = "UNSIGNED-PAYLOAD"
)

// actionHandler runs handler against a fresh empty bucket owned by
// the main user. The bucket is released afterwards whatever the
// outcome. opts customize the bucket creation.
func actionHandler(s *S3Conf, testName string, handler func(s3client *s3.Client, bucket string) error, opts ...fixture.CreateOption) error {
	runF(testName)
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	bucket, err := s.fixture.NewBucket(ctx, opts...)
	cancel()
	if err != nil {
		failF("%v: failed to create a bucket: %v", testName, err)
		s.report(testName, err, start)
		return fmt.Errorf("%v: failed to create a bucket: %w", testName, err)
	}

	handlerErr := handler(s.GetClient(), bucket)
	if handlerErr != nil {
		failF("%v: %v", testName, handlerErr)
	}

	ctx, cancel = context.WithTimeout(context.Background(), longTimeout)
	err = s.fixture.Release(ctx, bucket)
	cancel()
	if err != nil {
		fmt.Printf(colorRed+"%v: failed to delete the bucket: %v\n"+colorReset, testName, err)
		if handlerErr == nil {
			failF("%v: %v", testName, err)
			s.report(testName, err, start)
			return fmt.Errorf("%v: failed to delete the bucket: %w", testName, err)
		}
	}

	s.report(testName, handlerErr, start)
	if handlerErr == nil {
		passF(testName)
	}

	return handlerErr
}

// clientHandler runs handler without creating a bucket. Buckets the
// handler creates must use names from newBucketName so the final
// cleanup finds them.
func clientHandler(s *S3Conf, testName string, handler func(s3client *s3.Client) error) error {
	runF(testName)
	start := time.Now()

	err := handler(s.GetClient())
	s.report(testName, err, start)
	if err != nil {
		failF("%v: %v", testName, err)
		return fmt.Errorf("%v: %w", testName, err)
	}

	passF(testName)
	return nil
}

func (c *S3Conf) report(testName string, err error, start time.Time) {
	group, _, _ := strings.Cut(testName, "_")
	c.metrics.Report(group, testName, err, time.Since(start))
}

func newBucketName(s *S3Conf) (string, error) {
	return s.fixture.NewBucketName()
}

// createBucket creates bucket with an optional canned acl
func createBucket(client *s3.Client, bucket string, acl types.BucketCannedACL) error {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	_, err := client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: &bucket,
		ACL:    acl,
	})
	cancel()
	return err
}

// putObjects writes each key with the key itself as body
func putObjects(client *s3.Client, objs []string, bucket string) error {
	for _, key := range objs {
		ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
		_, err := client.PutObject(ctx, &s3.PutObjectInput{
			Key:    &key,
			Bucket: &bucket,
			Body:   strings.NewReader(key),
		})
		cancel()
		if err != nil {
			return fmt.Errorf("put object %v: %w", key, err)
		}
	}
	return nil
}

func putString(client *s3.Client, bucket, key, body string) (*s3.PutObjectOutput, error) {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	defer cancel()
	return client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   strings.NewReader(body),
	})
}

// getObjectBody reads the whole object
func getObjectBody(client *s3.Client, bucket, key string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	defer cancel()
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return "", err
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("read object body: %w", err)
	}
	return string(body), nil
}

func checkObjectBody(client *s3.Client, bucket, key, expected string) error {
	body, err := getObjectBody(client, bucket, key)
	if err != nil {
		return err
	}
	if body != expected {
		return fmt.Errorf("expected the object body to be %q, instead got %q", expected, body)
	}
	return nil
}

// checkApiErr verifies err carries the error code and, when the
// response is available, the status of apiErr
func checkApiErr(err error, apiErr s3err.APIError) error {
	if err == nil {
		return fmt.Errorf("expected %v, instead got nil", apiErr.Code)
	}

	if status := httpStatus(err); status != 0 && status != apiErr.HTTPStatusCode {
		return fmt.Errorf("expected response status code to be %v, instead got %v",
			apiErr.HTTPStatusCode, status)
	}

	var ae smithy.APIError
	if errors.As(err, &ae) {
		if ae.ErrorCode() != apiErr.Code {
			return fmt.Errorf("expected error code to be %v, instead got %v", apiErr.Code, ae.ErrorCode())
		}
		return nil
	}

	return fmt.Errorf("expected aws api error, instead got: %w", err)
}

func checkSdkApiErr(err error, code string) error {
	if err == nil {
		return fmt.Errorf("expected %v, instead got nil", code)
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		if ae.ErrorCode() != code {
			return fmt.Errorf("expected %v, instead got %v", code, ae.ErrorCode())
		}
		return nil
	}
	return err
}

// checkHTTPStatus is for responses without an error body, such as
// HEAD requests and 304 Not Modified
func checkHTTPStatus(err error, status int) error {
	if err == nil {
		return fmt.Errorf("expected response status %v, instead got success", status)
	}
	got := httpStatus(err)
	if got == 0 {
		return fmt.Errorf("expected response status %v, instead got: %w", status, err)
	}
	if got != status {
		return fmt.Errorf("expected response status %v, instead got %v: %w", status, got, err)
	}
	return nil
}

func checkAccessDenied(err error) error {
	return checkHTTPStatus(err, http.StatusForbidden)
}

func httpStatus(err error) int {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode()
	}
	return 0
}

// checkResponseErr verifies a raw http response holds the expected
// S3 error document
func checkResponseErr(resp *http.Response, apiErr s3err.APIError) error {
	defer resp.Body.Close()
	return s3err.CheckResponse(resp, apiErr)
}

func checkResponseStatus(resp *http.Response, status int) error {
	defer resp.Body.Close()
	if resp.StatusCode != status {
		body, _ := io.ReadAll(resp.Body)
		debuglogger.Logf("unexpected response body: %s", body)
		return fmt.Errorf("expected response status %v, instead got %v", status, resp.StatusCode)
	}
	return nil
}

func getString(str *string) string {
	if str == nil {
		return ""
	}
	return *str
}

func getPtr[T any](v T) *T {
	return &v
}

func getBool(b *bool) bool {
	return b != nil && *b
}

func getInt32(i *int32) int32 {
	if i == nil {
		return 0
	}
	return *i
}

func getInt64(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}

func objectKeys(objs []types.Object) []string {
	keys := make([]string, 0, len(objs))
	for _, obj := range objs {
		keys = append(keys, getString(obj.Key))
	}
	return keys
}

func commonPrefixes(cps []types.CommonPrefix) []string {
	prefixes := make([]string, 0, len(cps))
	for _, cp := range cps {
		prefixes = append(prefixes, getString(cp.Prefix))
	}
	return prefixes
}

// compareStrings compares ordered string lists, nil and empty are
// the same
func compareStrings(what string, expected, got []string) error {
	if diff := cmp.Diff(expected, got, cmpopts.EquateEmpty()); diff != "" {
		return fmt.Errorf("unexpected %v (-want +got):\n%s", what, diff)
	}
	return nil
}

// compareDates compares timestamps with second precision
func compareDates(what string, expected, got *time.Time) error {
	if expected == nil || got == nil {
		return fmt.Errorf("%v: missing timestamp, expected %v, got %v", what, expected, got)
	}
	if !expected.Truncate(time.Second).Equal(got.Truncate(time.Second)) {
		return fmt.Errorf("expected %v to be %v, instead got %v",
			what, expected.UTC(), got.UTC())
	}
	return nil
}

func grantKey(g types.Grant) string {
	if g.Grantee == nil {
		return string(g.Permission)
	}
	return strings.Join([]string{
		string(g.Permission),
		string(g.Grantee.Type),
		getString(g.Grantee.ID),
		getString(g.Grantee.URI),
		getString(g.Grantee.EmailAddress),
	}, "|")
}

var grantOpts = cmp.Options{
	cmpopts.IgnoreUnexported(types.Grant{}, types.Grantee{}),
	cmpopts.SortSlices(func(a, b types.Grant) bool { return grantKey(a) < grantKey(b) }),
	cmpopts.EquateEmpty(),
}

// compareGrants compares two grant sets regardless of order
func compareGrants(expected, got []types.Grant) error {
	if diff := cmp.Diff(expected, got, grantOpts); diff != "" {
		debuglogger.Dump("received grants", got)
		return fmt.Errorf("unexpected grants (-want +got):\n%s", diff)
	}
	return nil
}

func userGrant(id, displayName string, perm types.Permission) types.Grant {
	grantee := &types.Grantee{
		Type: types.TypeCanonicalUser,
		ID:   &id,
	}
	if displayName != "" {
		grantee.DisplayName = &displayName
	}
	return types.Grant{Grantee: grantee, Permission: perm}
}

func groupGrant(uri string, perm types.Permission) types.Grant {
	return types.Grant{
		Grantee: &types.Grantee{
			Type: types.TypeGroup,
			URI:  &uri,
		},
		Permission: perm,
	}
}

func (c *S3Conf) mainGrant(perm types.Permission) types.Grant {
	return userGrant(c.cfg.Main.UserID, c.cfg.Main.DisplayName, perm)
}

func (c *S3Conf) altGrant(perm types.Permission) types.Grant {
	return userGrant(c.cfg.Alt.UserID, c.cfg.Alt.DisplayName, perm)
}

func (c *S3Conf) checkOwner(owner *types.Owner) error {
	if owner == nil {
		return errors.New("expected an owner, instead got none")
	}
	if getString(owner.ID) != c.cfg.Main.UserID {
		return fmt.Errorf("expected the owner id to be %v, instead got %v",
			c.cfg.Main.UserID, getString(owner.ID))
	}
	if getString(owner.DisplayName) != c.cfg.Main.DisplayName {
		return fmt.Errorf("expected the owner display name to be %v, instead got %v",
			c.cfg.Main.DisplayName, getString(owner.DisplayName))
	}
	return nil
}

// objectURL is the plain url of bucket/key on the server under test
func (c *S3Conf) objectURL(bucket, key string) string {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return c.endpoint
	}
	if c.hostStyle {
		u.Host = bucket + "." + u.Host
		u.Path = "/" + key
	} else {
		u.Path = "/" + bucket
		if key != "" {
			u.Path += "/" + key
		}
	}
	return u.String()
}

// presignURL presigns a request for bucket/key with an arbitrary
// X-Amz-Expires value, which may be out of the range the sdk presign
// client accepts
func (c *S3Conf) presignURL(method, bucket, key string, expires int, signTime time.Time) (string, error) {
	req, err := http.NewRequest(method, c.objectURL(bucket, key), nil)
	if err != nil {
		return "", err
	}

	q := req.URL.Query()
	q.Set("X-Amz-Expires", fmt.Sprint(expires))
	req.URL.RawQuery = q.Encode()

	creds := aws.Credentials{
		AccessKeyID:     c.cfg.Main.AccessKey,
		SecretAccessKey: c.cfg.Main.SecretKey,
	}

	signer := v4.NewSigner()
	uri, _, err := signer.PresignHTTP(req.Context(), creds, req, unsignedPayload,
		"s3", c.cfg.Region, signTime)
	if err != nil {
		return "", fmt.Errorf("failed to presign the request: %w", err)
	}
	return uri, nil
}

// doRequest sends a plain http request with the suite's transport
func (c *S3Conf) doRequest(method, uri string, body io.Reader) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	req, err := http.NewRequestWithContext(ctx, method, uri, body)
	if err != nil {
		cancel()
		return nil, err
	}

	debuglogger.LogRequest(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	debuglogger.LogResponse(resp)
	resp.Body = cancelOnClose{resp.Body, cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func genRandString(length int) string {
	source := rnd.NewSource(time.Now().UnixNano())
	random := rnd.New(source)
	result := make([]byte, length)
	for i := range result {
		result[i] = charset[random.Intn(len(charset))]
	}
	return string(result)
}
