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
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/versity/s3tests/fixture"
	"github.com/versity/s3tests/s3err"
)

func getBucketACL(client *s3.Client, bucket string) (*s3.GetBucketAclOutput, error) {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	defer cancel()
	return client.GetBucketAcl(ctx, &s3.GetBucketAclInput{Bucket: &bucket})
}

func getObjectACL(client *s3.Client, bucket, key string) (*s3.GetObjectAclOutput, error) {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	defer cancel()
	return client.GetObjectAcl(ctx, &s3.GetObjectAclInput{Bucket: &bucket, Key: &key})
}

func putBucketPolicy(client *s3.Client, bucket string, owner *types.Owner, grants []types.Grant) error {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	defer cancel()
	_, err := client.PutBucketAcl(ctx, &s3.PutBucketAclInput{
		Bucket: &bucket,
		AccessControlPolicy: &types.AccessControlPolicy{
			Owner:  owner,
			Grants: grants,
		},
	})
	return err
}

func putObjectPolicy(client *s3.Client, bucket, key string, owner *types.Owner, grants []types.Grant) error {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	defer cancel()
	_, err := client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: &bucket,
		Key:    &key,
		AccessControlPolicy: &types.AccessControlPolicy{
			Owner:  owner,
			Grants: grants,
		},
	})
	return err
}

func putCannedBucketACL(client *s3.Client, bucket string, acl types.BucketCannedACL) error {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	defer cancel()
	_, err := client.PutBucketAcl(ctx, &s3.PutBucketAclInput{Bucket: &bucket, ACL: acl})
	return err
}

func putCannedObject(client *s3.Client, bucket, key string, acl types.ObjectCannedACL) error {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	defer cancel()
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		ACL:    acl,
		Body:   strings.NewReader("bar"),
	})
	return err
}

func putCannedObjectACL(client *s3.Client, bucket, key string, acl types.ObjectCannedACL) error {
	ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
	defer cancel()
	_, err := client.PutObjectAcl(ctx, &s3.PutObjectAclInput{Bucket: &bucket, Key: &key, ACL: acl})
	return err
}

func (c *S3Conf) checkBucketGrants(client *s3.Client, bucket string, expected ...types.Grant) error {
	out, err := getBucketACL(client, bucket)
	if err != nil {
		return err
	}
	if err := c.checkOwner(out.Owner); err != nil {
		return err
	}
	return compareGrants(expected, out.Grants)
}

func (c *S3Conf) checkObjectGrants(client *s3.Client, bucket, key string, expected ...types.Grant) error {
	out, err := getObjectACL(client, bucket, key)
	if err != nil {
		return err
	}
	return compareGrants(expected, out.Grants)
}

// cannedGrants are the grants a canned acl expands to for a resource
// owned by the main user
func (c *S3Conf) cannedGrants(acl string) []types.Grant {
	owner := c.mainGrant(types.PermissionFullControl)
	switch acl {
	case "public-read":
		return []types.Grant{groupGrant(allUsersURI, types.PermissionRead), owner}
	case "public-read-write":
		return []types.Grant{
			groupGrant(allUsersURI, types.PermissionRead),
			groupGrant(allUsersURI, types.PermissionWrite),
			owner,
		}
	case "authenticated-read":
		return []types.Grant{groupGrant(authUsersURI, types.PermissionRead), owner}
	default:
		return []types.Grant{owner}
	}
}

func ACL_bucket_default(s *S3Conf) error {
	testName := "ACL_bucket_default"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		return s.checkBucketGrants(s3client, bucket, s.cannedGrants("private")...)
	})
}

func ACL_bucket_canned_during_create(s *S3Conf) error {
	testName := "ACL_bucket_canned_during_create"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		return s.checkBucketGrants(s3client, bucket, s.cannedGrants("public-read")...)
	}, fixture.WithCannedACL(types.BucketCannedACLPublicRead))
}

func ACL_bucket_canned(s *S3Conf) error {
	testName := "ACL_bucket_canned"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		for _, acl := range []types.BucketCannedACL{
			types.BucketCannedACLPublicRead,
			types.BucketCannedACLPrivate,
		} {
			if err := putCannedBucketACL(s3client, bucket, acl); err != nil {
				return err
			}
			if err := s.checkBucketGrants(s3client, bucket, s.cannedGrants(string(acl))...); err != nil {
				return fmt.Errorf("%v: %w", acl, err)
			}
		}
		return nil
	})
}

func ACL_bucket_canned_publicreadwrite(s *S3Conf) error {
	testName := "ACL_bucket_canned_publicreadwrite"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		return s.checkBucketGrants(s3client, bucket, s.cannedGrants("public-read-write")...)
	}, fixture.WithCannedACL(types.BucketCannedACLPublicReadWrite))
}

func ACL_bucket_canned_authenticatedread(s *S3Conf) error {
	testName := "ACL_bucket_canned_authenticatedread"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		return s.checkBucketGrants(s3client, bucket, s.cannedGrants("authenticated-read")...)
	}, fixture.WithCannedACL(types.BucketCannedACLAuthenticatedRead))
}

func ACL_object_default(s *S3Conf) error {
	testName := "ACL_object_default"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if _, err := putString(s3client, bucket, "foo", "bar"); err != nil {
			return err
		}
		return s.checkObjectGrants(s3client, bucket, "foo", s.cannedGrants("private")...)
	})
}

func ACL_object_canned_during_create(s *S3Conf) error {
	testName := "ACL_object_canned_during_create"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if err := putCannedObject(s3client, bucket, "foo", types.ObjectCannedACLPublicRead); err != nil {
			return err
		}
		return s.checkObjectGrants(s3client, bucket, "foo", s.cannedGrants("public-read")...)
	})
}

func ACL_object_canned(s *S3Conf) error {
	testName := "ACL_object_canned"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if err := putCannedObject(s3client, bucket, "foo", types.ObjectCannedACLPublicRead); err != nil {
			return err
		}
		if err := s.checkObjectGrants(s3client, bucket, "foo", s.cannedGrants("public-read")...); err != nil {
			return err
		}
		if err := putCannedObjectACL(s3client, bucket, "foo", types.ObjectCannedACLPrivate); err != nil {
			return err
		}
		return s.checkObjectGrants(s3client, bucket, "foo", s.cannedGrants("private")...)
	})
}

func ACL_object_canned_publicreadwrite(s *S3Conf) error {
	testName := "ACL_object_canned_publicreadwrite"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if err := putCannedObject(s3client, bucket, "foo", types.ObjectCannedACLPublicReadWrite); err != nil {
			return err
		}
		return s.checkObjectGrants(s3client, bucket, "foo", s.cannedGrants("public-read-write")...)
	})
}

func ACL_object_canned_authenticatedread(s *S3Conf) error {
	testName := "ACL_object_canned_authenticatedread"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if err := putCannedObject(s3client, bucket, "foo", types.ObjectCannedACLAuthenticatedRead); err != nil {
			return err
		}
		return s.checkObjectGrants(s3client, bucket, "foo", s.cannedGrants("authenticated-read")...)
	})
}

// bucketOwnerACL has the alt user write foo into a public-read-write
// bucket of the main user with acl, and expects the bucket owner to
// be granted perm
func bucketOwnerACL(s *S3Conf, testName string, acl types.ObjectCannedACL, perm types.Permission) error {
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		altClient, err := s.GetAltClient()
		if err != nil {
			return err
		}
		if _, err := putString(altClient, bucket, "foo", "bar"); err != nil {
			return err
		}
		if err := putCannedObject(altClient, bucket, "foo", acl); err != nil {
			return err
		}
		return s.checkObjectGrants(altClient, bucket, "foo",
			s.altGrant(types.PermissionFullControl),
			s.mainGrant(perm),
		)
	}, publicBucket())
}

func ACL_object_canned_bucketownerread(s *S3Conf) error {
	return bucketOwnerACL(s, "ACL_object_canned_bucketownerread",
		types.ObjectCannedACLBucketOwnerRead, types.PermissionRead)
}

func ACL_object_canned_bucketownerfullcontrol(s *S3Conf) error {
	return bucketOwnerACL(s, "ACL_object_canned_bucketownerfullcontrol",
		types.ObjectCannedACLBucketOwnerFullControl, types.PermissionFullControl)
}

func (c *S3Conf) mainOwner() *types.Owner {
	return &types.Owner{
		ID:          aws.String(c.cfg.Main.UserID),
		DisplayName: aws.String(c.cfg.Main.DisplayName),
	}
}

// altIDGrant grants perm to the alt user by canonical id, the way a
// client sends it
func (c *S3Conf) altIDGrant(perm types.Permission) types.Grant {
	return types.Grant{
		Grantee: &types.Grantee{
			Type: types.TypeCanonicalUser,
			ID:   aws.String(c.cfg.Alt.UserID),
		},
		Permission: perm,
	}
}

func ACL_object_full_control_verify_owner(s *S3Conf) error {
	testName := "ACL_object_full_control_verify_owner"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		altClient, err := s.GetAltClient()
		if err != nil {
			return err
		}
		if _, err := putString(s3client, bucket, "foo", "bar"); err != nil {
			return err
		}

		err = putObjectPolicy(s3client, bucket, "foo", s.mainOwner(),
			[]types.Grant{s.altIDGrant(types.PermissionFullControl)})
		if err != nil {
			return err
		}
		err = putObjectPolicy(altClient, bucket, "foo", s.mainOwner(),
			[]types.Grant{s.altIDGrant(types.PermissionReadAcp)})
		if err != nil {
			return err
		}

		out, err := getObjectACL(altClient, bucket, "foo")
		if err != nil {
			return err
		}
		return s.checkOwner(out.Owner)
	}, publicBucket())
}

func ACL_object_full_control_verify_attributes(s *S3Conf) error {
	testName := "ACL_object_full_control_verify_attributes"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		client := s.GetClientWith(WithHeaders(map[string]string{"x-amz-foo": "bar"}))
		if _, err := putString(client, bucket, "foo", "bar"); err != nil {
			return err
		}
		before, err := headObject(s3client, bucket, "foo")
		if err != nil {
			return err
		}

		acl, err := getObjectACL(s3client, bucket, "foo")
		if err != nil {
			return err
		}
		grants := append(acl.Grants, s.altIDGrant(types.PermissionFullControl))
		if err := putObjectPolicy(s3client, bucket, "foo", s.mainOwner(), grants); err != nil {
			return err
		}

		after, err := headObject(s3client, bucket, "foo")
		if err != nil {
			return err
		}
		if getString(before.ContentType) != getString(after.ContentType) {
			return fmt.Errorf("expected content type %q, instead got %q",
				getString(before.ContentType), getString(after.ContentType))
		}
		if getString(before.ETag) != getString(after.ETag) {
			return fmt.Errorf("expected etag %v, instead got %v",
				getString(before.ETag), getString(after.ETag))
		}
		return nil
	}, publicBucket())
}

func ACL_bucket_canned_private_to_private(s *S3Conf) error {
	testName := "ACL_bucket_canned_private_to_private"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		return putCannedBucketACL(s3client, bucket, types.BucketCannedACLPrivate)
	})
}

// objectACL replaces the owner grant of foo with perm
func objectACL(s *S3Conf, testName string, perm types.Permission) error {
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if _, err := putString(s3client, bucket, "foo", "bar"); err != nil {
			return err
		}
		acl, err := getObjectACL(s3client, bucket, "foo")
		if err != nil {
			return err
		}
		if len(acl.Grants) == 0 {
			return errors.New("expected the object to have an owner grant")
		}
		grants := acl.Grants
		grants[0].Permission = perm

		if err := putObjectPolicy(s3client, bucket, "foo", acl.Owner, grants); err != nil {
			return err
		}
		return s.checkObjectGrants(s3client, bucket, "foo", s.mainGrant(perm))
	})
}

func ACL_object_acl_full_control(s *S3Conf) error {
	return objectACL(s, "ACL_object_acl_full_control", types.PermissionFullControl)
}

func ACL_object_acl_write(s *S3Conf) error {
	return objectACL(s, "ACL_object_acl_write", types.PermissionWrite)
}

func ACL_object_acl_write_acp(s *S3Conf) error {
	return objectACL(s, "ACL_object_acl_write_acp", types.PermissionWriteAcp)
}

func ACL_object_acl_read(s *S3Conf) error {
	return objectACL(s, "ACL_object_acl_read", types.PermissionRead)
}

func ACL_object_acl_read_acp(s *S3Conf) error {
	return objectACL(s, "ACL_object_acl_read_acp", types.PermissionReadAcp)
}

// addBucketGrant adds grant to the current acl of bucket
func addBucketGrant(client *s3.Client, bucket string, grant types.Grant) error {
	acl, err := getBucketACL(client, bucket)
	if err != nil {
		return err
	}
	return putBucketPolicy(client, bucket, acl.Owner, append(acl.Grants, grant))
}

// altAccess is what the alt user may do on a bucket
type altAccess struct {
	read, readACP, write, writeACP bool
}

func checkAltAccess(altClient *s3.Client, bucket string, access altAccess) error {
	checks := []struct {
		name    string
		allowed bool
		op      func() error
	}{
		{"read", access.read, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), shortTimeout)
			defer cancel()
			_, err := altClient.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &bucket})
			return err
		}},
		{"read acp", access.readACP, func() error {
			_, err := getBucketACL(altClient, bucket)
			return err
		}},
		{"write", access.write, func() error {
			_, err := putString(altClient, bucket, "foo-write", "bar")
			return err
		}},
		{"write acp", access.writeACP, func() error {
			return putCannedBucketACL(altClient, bucket, types.BucketCannedACLPublicRead)
		}},
	}

	for _, c := range checks {
		err := c.op()
		if c.allowed {
			if err != nil {
				return fmt.Errorf("alt user %v: %w", c.name, err)
			}
			continue
		}
		if err := checkAccessDenied(err); err != nil {
			return fmt.Errorf("alt user %v: %w", c.name, err)
		}
	}
	return nil
}

func bucketGrantUserID(s *S3Conf, testName string, perm types.Permission, access altAccess) error {
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		altClient, err := s.GetAltClient()
		if err != nil {
			return err
		}
		if err := addBucketGrant(s3client, bucket, s.altIDGrant(perm)); err != nil {
			return err
		}
		err = s.checkBucketGrants(s3client, bucket,
			s.altGrant(perm),
			s.mainGrant(types.PermissionFullControl),
		)
		if err != nil {
			return err
		}
		if err := checkAltAccess(altClient, bucket, access); err != nil {
			return err
		}

		acl, err := getBucketACL(s3client, bucket)
		if err != nil {
			return err
		}
		return s.checkOwner(acl.Owner)
	})
}

func ACL_bucket_grant_userid_fullcontrol(s *S3Conf) error {
	return bucketGrantUserID(s, "ACL_bucket_grant_userid_fullcontrol", types.PermissionFullControl,
		altAccess{read: true, readACP: true, write: true, writeACP: true})
}

func ACL_bucket_grant_userid_read(s *S3Conf) error {
	return bucketGrantUserID(s, "ACL_bucket_grant_userid_read", types.PermissionRead,
		altAccess{read: true})
}

func ACL_bucket_grant_userid_readacp(s *S3Conf) error {
	return bucketGrantUserID(s, "ACL_bucket_grant_userid_readacp", types.PermissionReadAcp,
		altAccess{readACP: true})
}

func ACL_bucket_grant_userid_write(s *S3Conf) error {
	return bucketGrantUserID(s, "ACL_bucket_grant_userid_write", types.PermissionWrite,
		altAccess{write: true})
}

func ACL_bucket_grant_userid_writeacp(s *S3Conf) error {
	return bucketGrantUserID(s, "ACL_bucket_grant_userid_writeacp", types.PermissionWriteAcp,
		altAccess{writeACP: true})
}

func ACL_bucket_grant_nonexist_user(s *S3Conf) error {
	testName := "ACL_bucket_grant_nonexist_user"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		err := addBucketGrant(s3client, bucket, types.Grant{
			Grantee: &types.Grantee{
				Type: types.TypeCanonicalUser,
				ID:   aws.String("_foo"),
			},
			Permission: types.PermissionFullControl,
		})
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrInvalidArgument))
	})
}

// revokeAll clears every grant of bucket, runs fn and restores the
// original grants
func revokeAll(client *s3.Client, bucket string, fn func(owner *types.Owner) error) error {
	acl, err := getBucketACL(client, bucket)
	if err != nil {
		return err
	}
	if err := putBucketPolicy(client, bucket, acl.Owner, []types.Grant{}); err != nil {
		return fmt.Errorf("clear grants: %w", err)
	}

	fnErr := fn(acl.Owner)

	if err := putBucketPolicy(client, bucket, acl.Owner, acl.Grants); err != nil && fnErr == nil {
		return fmt.Errorf("restore grants: %w", err)
	}
	return fnErr
}

func ACL_bucket_no_grants(s *S3Conf) error {
	testName := "ACL_bucket_no_grants"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if _, err := putString(s3client, bucket, "foo", "bar"); err != nil {
			return err
		}
		return revokeAll(s3client, bucket, func(*types.Owner) error {
			if _, err := getObjectBody(s3client, bucket, "foo"); err != nil {
				return fmt.Errorf("owner read: %w", err)
			}
			_, err := putString(s3client, bucket, "baz", "a")
			if err := checkAccessDenied(err); err != nil {
				return fmt.Errorf("owner write: %w", err)
			}
			if _, err := getBucketACL(s3client, bucket); err != nil {
				return fmt.Errorf("owner read acp: %w", err)
			}
			if err := putCannedBucketACL(s3client, bucket, types.BucketCannedACLPrivate); err != nil {
				return fmt.Errorf("owner write acp: %w", err)
			}
			return nil
		})
	})
}

// grantHeaders grants every permission to the alt user through the
// x-amz-grant-* request headers
func (c *S3Conf) grantHeaders() map[string]string {
	id := "id=" + c.cfg.Alt.UserID
	return map[string]string{
		"x-amz-grant-read":         id,
		"x-amz-grant-write":        id,
		"x-amz-grant-read-acp":     id,
		"x-amz-grant-write-acp":    id,
		"x-amz-grant-full-control": id,
	}
}

func (c *S3Conf) altGrantsAll() []types.Grant {
	return []types.Grant{
		c.altGrant(types.PermissionRead),
		c.altGrant(types.PermissionWrite),
		c.altGrant(types.PermissionReadAcp),
		c.altGrant(types.PermissionWriteAcp),
		c.altGrant(types.PermissionFullControl),
	}
}

func ACL_object_header_acl_grants(s *S3Conf) error {
	testName := "ACL_object_header_acl_grants"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if !s.cfg.Alt.Configured() {
			return errAltNotConfigured
		}
		client := s.GetClientWith(WithHeaders(s.grantHeaders()))
		if _, err := putString(client, bucket, "foo_key", "bar"); err != nil {
			return err
		}
		return s.checkObjectGrants(s3client, bucket, "foo_key", s.altGrantsAll()...)
	})
}

func ACL_bucket_header_acl_grants(s *S3Conf) error {
	testName := "ACL_bucket_header_acl_grants"
	return clientHandler(s, testName, func(s3client *s3.Client) error {
		altClient, err := s.GetAltClient()
		if err != nil {
			return err
		}
		bucket, err := newBucketName(s)
		if err != nil {
			return err
		}

		client := s.GetClientWith(WithHeaders(s.grantHeaders()))
		if err := createBucket(client, bucket, ""); err != nil {
			return err
		}
		defer s.fixture.Release(context.Background(), bucket)

		if err := s.checkBucketGrants(s3client, bucket, s.altGrantsAll()...); err != nil {
			return err
		}

		if _, err := putString(altClient, bucket, "foo", "bar"); err != nil {
			return fmt.Errorf("alt user write: %w", err)
		}
		if err := putCannedBucketACL(altClient, bucket, types.BucketCannedACLPublicReadWrite); err != nil {
			return fmt.Errorf("alt user write acp: %w", err)
		}
		return nil
	})
}

func emailGrant(email string) types.Grant {
	return types.Grant{
		Grantee: &types.Grantee{
			Type:         types.TypeAmazonCustomerByEmail,
			EmailAddress: aws.String(email),
		},
		Permission: types.PermissionFullControl,
	}
}

func ACL_bucket_grant_email(s *S3Conf) error {
	testName := "ACL_bucket_grant_email"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if s.cfg.Alt.Email == "" {
			return errors.New("alt user email not configured")
		}
		if err := addBucketGrant(s3client, bucket, emailGrant(s.cfg.Alt.Email)); err != nil {
			return err
		}
		return s.checkBucketGrants(s3client, bucket,
			s.altGrant(types.PermissionFullControl),
			s.mainGrant(types.PermissionFullControl),
		)
	})
}

func ACL_bucket_grant_email_notexist(s *S3Conf) error {
	testName := "ACL_bucket_grant_email_notexist"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		err := addBucketGrant(s3client, bucket, emailGrant("doesnotexist@dreamhost.com.invalid"))
		return checkApiErr(err, s3err.GetAPIError(s3err.ErrUnresolvableGrantByEmail))
	})
}

func ACL_bucket_revoke_all(s *S3Conf) error {
	testName := "ACL_bucket_revoke_all"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		if _, err := putString(s3client, bucket, "foo", "bar"); err != nil {
			return err
		}
		return revokeAll(s3client, bucket, func(*types.Owner) error {
			acl, err := getBucketACL(s3client, bucket)
			if err != nil {
				return err
			}
			if len(acl.Grants) != 0 {
				return fmt.Errorf("expected no grants, instead got %v", len(acl.Grants))
			}
			return nil
		})
	})
}

func ACL_access_bucket_private_object_private(s *S3Conf) error {
	testName := "ACL_access_bucket_private_object_private"
	return actionHandler(s, testName, func(s3client *s3.Client, bucket string) error {
		altClient, err := s.GetAltClient()
		if err != nil {
			return err
		}

		if err := setupObjectACL(s3client, bucket, types.BucketCannedACLPrivate, types.ObjectCannedACLPrivate); err != nil {
			return err
		}
		if _, err := putString(s3client, bucket, "bar", "barcontent"); err != nil {
			return err
		}

		checks := []struct {
			name string
			op   func() error
		}{
			{"read foo", func() error {
				_, err := getObjectBody(altClient, bucket, "foo")
				return err
			}},
			{"write foo", func() error {
				_, err := putString(altClient, bucket, "foo", "")
				return err
			}},
			{"read bar", func() error {
				_, err := getObjectBody(altClient, bucket, "bar")
				return err
			}},
			{"list bucket", func() error {
				_, err := listObjects(altClient, &s3.ListObjectsInput{Bucket: &bucket})
				return err
			}},
			{"write new", func() error {
				_, err := putString(altClient, bucket, "new", "newcontent")
				return err
			}},
		}
		for _, c := range checks {
			if err := checkAccessDenied(c.op()); err != nil {
				return fmt.Errorf("alt user %v: %w", c.name, err)
			}
		}
		return nil
	})
}
