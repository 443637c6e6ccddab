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
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/versity/s3tests/debuglogger"
)

// createSignedReq builds a request for bucket/key signed as the main
// user at the given date
func (c *S3Conf) createSignedReq(method, bucket, key string, headers map[string]string, body []byte, date time.Time) (*http.Request, error) {
	req, err := http.NewRequest(method, c.objectURL(bucket, key), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create the request: %w", err)
	}

	for k, v := range headers {
		req.Header[http.CanonicalHeaderKey(k)] = []string{v}
	}

	signer := v4.NewSigner()

	hashedPayload := sha256.Sum256(body)
	hexPayload := hex.EncodeToString(hashedPayload[:])

	req.Header.Set("X-Amz-Content-Sha256", hexPayload)

	creds := aws.Credentials{
		AccessKeyID:     c.cfg.Main.AccessKey,
		SecretAccessKey: c.cfg.Main.SecretKey,
	}
	signErr := signer.SignHTTP(req.Context(), creds, req, hexPayload, "s3", c.cfg.Region, date)
	if signErr != nil {
		return nil, fmt.Errorf("failed to sign the request: %w", signErr)
	}

	return req, nil
}

// sendRaw writes req to a fresh connection byte for byte. Unlike
// http.Client it does not validate header values, so control
// characters reach the server.
func (c *S3Conf) sendRaw(req *http.Request) (*http.Response, error) {
	host := req.URL.Host
	if req.URL.Port() == "" {
		port := "80"
		if req.URL.Scheme == "https" {
			port = "443"
		}
		host = net.JoinHostPort(req.URL.Hostname(), port)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	defer cancel()

	var (
		conn net.Conn
		err  error
	)
	dialer := &net.Dialer{}
	if req.URL.Scheme == "https" {
		td := &tls.Dialer{
			NetDialer: dialer,
			Config: &tls.Config{
				InsecureSkipVerify: !c.cfg.SSLVerify,
				ServerName:         req.URL.Hostname(),
			},
		}
		conn, err = td.DialContext(ctx, "tcp", host)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", host)
	}
	if err != nil {
		return nil, fmt.Errorf("dial %v: %w", host, err)
	}

	if err := conn.SetDeadline(time.Now().Add(shortTimeout)); err != nil {
		conn.Close()
		return nil, err
	}

	debuglogger.LogRequest(req)
	if err := req.Write(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write request: %w", err)
	}

	resp, err := http.ReadResponse(bufio.NewReader(conn), req)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("read response: %w", err)
	}
	debuglogger.LogResponse(resp)

	resp.Body = connBody{ReadCloser: resp.Body, conn: conn}
	return resp, nil
}

type connBody struct {
	io.ReadCloser
	conn net.Conn
}

func (b connBody) Close() error {
	err := b.ReadCloser.Close()
	b.conn.Close()
	return err
}
