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
	"crypto/tls"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/versity/s3tests/config"
	"github.com/versity/s3tests/fixture"
	"github.com/versity/s3tests/metrics"
)

var errAltNotConfigured = errors.New("alt user not configured, add an [alt] section to the config")

type S3Conf struct {
	cfg         *config.Config
	endpoint    string
	hostStyle   bool
	debug       bool
	PartSize    int64
	Concurrency int
	httpClient  *http.Client
	fixture     *fixture.Fixture
	metrics     *metrics.Manager
}

// NewS3Conf builds the client factory for the server described by
// cfg. Unless WithFixture is given, a fixture using the configured
// bucket prefix template is created.
func NewS3Conf(cfg *config.Config, opts ...Option) *S3Conf {
	s := &S3Conf{
		cfg:         cfg,
		endpoint:    cfg.Endpoint(),
		PartSize:    5 * 1024 * 1024,
		Concurrency: 1,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.httpClient == nil {
		customTransport := &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: !cfg.SSLVerify,
			},
		}

		s.httpClient = &http.Client{
			Transport: customTransport,
			Timeout:   shortTimeout,
		}
	}

	if s.fixture == nil {
		s.fixture = fixture.New(s.GetClient(),
			fixture.WithTemplate(cfg.BucketPrefix),
			fixture.WithRequestTimeout(shortTimeout))
	}

	return s
}

type Option func(*S3Conf)

func WithEndpoint(e string) Option {
	return func(s *S3Conf) { s.endpoint = e }
}
func WithHostStyle() Option {
	return func(s *S3Conf) { s.hostStyle = true }
}
func WithPartSize(p int64) Option {
	return func(s *S3Conf) { s.PartSize = p }
}
func WithConcurrency(c int) Option {
	return func(s *S3Conf) { s.Concurrency = c }
}
func WithDebug() Option {
	return func(s *S3Conf) { s.debug = true }
}
func WithFixture(f *fixture.Fixture) Option {
	return func(s *S3Conf) { s.fixture = f }
}
func WithMetrics(m *metrics.Manager) Option {
	return func(s *S3Conf) { s.metrics = m }
}
func WithHTTPClient(c *http.Client) Option {
	return func(s *S3Conf) { s.httpClient = c }
}

// Fixture returns the bucket lifecycle manager of the run
func (c *S3Conf) Fixture() *fixture.Fixture {
	return c.fixture
}

func (c *S3Conf) Endpoint() string {
	return c.endpoint
}

func (c *S3Conf) Settings() *config.Config {
	return c.cfg
}

func (c *S3Conf) clientOptions(extra ...func(*s3.Options)) []func(*s3.Options) {
	return append([]func(*s3.Options){
		func(o *s3.Options) {
			o.BaseEndpoint = &c.endpoint
			o.UsePathStyle = !c.hostStyle
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		},
	}, extra...)
}

// GetClient returns a client signing as the main user. The optional
// functions customize it, e.g. with request interceptors.
func (c *S3Conf) GetClient(opts ...func(*s3.Options)) *s3.Client {
	return s3.NewFromConfig(c.Config(), c.clientOptions(opts...)...)
}

// GetAltClient returns a client signing as the alt user
func (c *S3Conf) GetAltClient(opts ...func(*s3.Options)) (*s3.Client, error) {
	if !c.cfg.Alt.Configured() {
		return nil, errAltNotConfigured
	}
	return s3.NewFromConfig(c.userConfig(c.cfg.Alt), c.clientOptions(opts...)...), nil
}

func (c *S3Conf) GetPresignClient() *s3.PresignClient {
	return s3.NewPresignClient(c.GetClient())
}

// GetAnonymousClient returns a client sending unsigned requests
func (c *S3Conf) GetAnonymousClient(opts ...func(*s3.Options)) *s3.Client {
	cfg := c.Config()
	cfg.Credentials = aws.AnonymousCredentials{}
	return s3.NewFromConfig(cfg, c.clientOptions(opts...)...)
}

// getUserClient returns a main user client with other credentials,
// e.g. an unknown access key
func (c *S3Conf) getUserClient(access, secret string) *s3.Client {
	return s3.NewFromConfig(c.userConfig(config.User{
		AccessKey: access,
		SecretKey: secret,
	}), c.clientOptions()...)
}

func (c *S3Conf) Config() aws.Config {
	return c.userConfig(c.cfg.Main)
}

func (c *S3Conf) userConfig(usr config.User) aws.Config {
	creds := credentials.NewStaticCredentialsProvider(usr.AccessKey, usr.SecretKey, "")

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(c.cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithHTTPClient(c.httpClient),
		awsconfig.WithRetryMaxAttempts(1),
	}

	if c.debug {
		opts = append(opts,
			awsconfig.WithClientLogMode(aws.LogSigning|aws.LogRetries|aws.LogRequest|aws.LogResponse))
	}

	cfg, err := awsconfig.LoadDefaultConfig(
		context.TODO(), opts...)
	if err != nil {
		log.Fatalln("error:", err)
	}

	return cfg
}

// UploadData streams r to bucket/object with a multipart upload
func (c *S3Conf) UploadData(ctx context.Context, r io.Reader, bucket, object string) error {
	uploader := manager.NewUploader(c.GetClient(),
		func(u *manager.Uploader) {
			u.PartSize = c.PartSize
			u.Concurrency = c.Concurrency
		})

	_, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Body:   r,
		Bucket: &bucket,
		Key:    &object,
	})
	return err
}
