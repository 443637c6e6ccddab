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

func TestBucketList(ts *TestState) {
	ts.Run(BucketList_empty)
	ts.Run(BucketList_distinct)
	ts.Run(BucketList_many)
	ts.Run(BucketList_delimiter_basic)
	ts.Run(BucketList_delimiter_prefix)
	ts.Run(BucketList_delimiter_prefix_ends_with_delimiter)
	ts.Run(BucketList_delimiter_alt)
	ts.Run(BucketList_delimiter_prefix_underscore)
	ts.Run(BucketList_delimiter_percentage)
	ts.Run(BucketList_delimiter_whitespace)
	ts.Run(BucketList_delimiter_dot)
	ts.Run(BucketList_delimiter_unreadable)
	ts.Run(BucketList_delimiter_empty)
	ts.Run(BucketList_delimiter_none)
	ts.Run(BucketList_delimiter_not_exist)
	ts.Run(BucketList_prefix_basic)
	ts.Run(BucketList_prefix_alt)
	ts.Run(BucketList_prefix_empty)
	ts.Run(BucketList_prefix_none)
	ts.Run(BucketList_prefix_not_exist)
	ts.Run(BucketList_prefix_unreadable)
	ts.Run(BucketList_prefix_delimiter_basic)
	ts.Run(BucketList_prefix_delimiter_alt)
	ts.Run(BucketList_prefix_delimiter_prefix_not_exist)
	ts.Run(BucketList_prefix_delimiter_delimiter_not_exist)
	ts.Run(BucketList_prefix_delimiter_prefix_delimiter_not_exist)
	ts.Run(BucketList_maxkeys_one)
	ts.Run(BucketList_maxkeys_zero)
	ts.Run(BucketList_maxkeys_none)
	ts.Run(BucketList_maxkeys_invalid)
	ts.Run(BucketList_marker_none)
	ts.Run(BucketList_marker_empty)
	ts.Run(BucketList_marker_unreadable)
	ts.Run(BucketList_marker_not_in_list)
	ts.Run(BucketList_marker_after_list)
	ts.Run(BucketList_return_data)
	ts.Run(BucketList_return_data_versioning)
	ts.Run(BucketList_objects_anonymous)
	ts.Run(BucketList_objects_anonymous_fail)
	ts.Run(BucketList_long_name)
}

func TestBucket(ts *TestState) {
	ts.Run(Bucket_notexist)
	ts.Run(Bucket_delete_notexist)
	ts.Run(Bucket_delete_nonempty)
	ts.Run(Bucket_concurrent_set_canned_acl)
	ts.Run(Bucket_create_delete)
	ts.Run(Bucket_head)
	ts.Run(Bucket_get_location)
	ts.Run(Bucket_create_exists)
	ts.Run(Bucket_create_exists_nonowner)
	// lists every bucket of the user
	ts.Sync(Bucket_create_then_list)
}

func TestBucketNaming(ts *TestState) {
	ts.Run(BucketNaming_bad_starts_nonalpha)
	ts.Run(BucketNaming_bad_short_empty)
	ts.Run(BucketNaming_bad_short_one)
	ts.Run(BucketNaming_bad_short_two)
	ts.Run(BucketNaming_bad_long)
	ts.Run(BucketNaming_good_long_250)
	ts.Run(BucketNaming_good_long_251)
	ts.Run(BucketNaming_good_long_252)
	ts.Run(BucketNaming_good_long_253)
	ts.Run(BucketNaming_good_long_254)
	ts.Run(BucketNaming_good_long_255)
	ts.Run(BucketNaming_bad_ip)
	ts.Run(BucketNaming_bad_punctuation)
	ts.Run(BucketNaming_dns_underscore)
	ts.Run(BucketNaming_dns_long)
	ts.Run(BucketNaming_dns_dash_at_end)
	ts.Run(BucketNaming_dns_dot_dot)
	ts.Run(BucketNaming_dns_dot_dash)
	ts.Run(BucketNaming_dns_dash_dot)
}

func TestObject(ts *TestState) {
	ts.Run(Object_write_to_nonexist_bucket)
	ts.Run(Object_read_notexist)
	ts.Run(Object_requestid_matches_header_on_error)
	ts.Run(Object_multi_object_delete)
	ts.Run(Object_head_zero_bytes)
	ts.Run(Object_write_check_etag)
	ts.Run(Object_write_cache_control)
	ts.Run(Object_write_expires)
	ts.Run(Object_write_read_update_read_delete)
	ts.Run(Object_write_file)
	ts.Run(Object_write_file_multipart)
	ts.Run(Object_raw_response_headers)
}

func TestObjectMetadata(ts *TestState) {
	ts.Run(ObjectMetadata_none_to_good)
	ts.Run(ObjectMetadata_none_to_empty)
	ts.Run(ObjectMetadata_overwrite_to_empty)
	ts.Run(ObjectMetadata_unicode)
	ts.Run(ObjectMetadata_non_utf8)
	ts.Run(ObjectMetadata_empty_to_unreadable_prefix)
	ts.Run(ObjectMetadata_empty_to_unreadable_suffix)
	ts.Run(ObjectMetadata_empty_to_unreadable_infix)
	ts.Run(ObjectMetadata_overwrite_to_unreadable_prefix)
	ts.Run(ObjectMetadata_overwrite_to_unreadable_suffix)
	ts.Run(ObjectMetadata_overwrite_to_unreadable_infix)
	ts.Run(ObjectMetadata_replaced_on_put)
}

func TestPostObject(ts *TestState) {
	ts.Run(PostObject_anonymous_request)
	ts.Run(PostObject_authenticated_request)
	ts.Run(PostObject_authenticated_request_bad_access_key)
	ts.Run(PostObject_set_success_code)
	ts.Run(PostObject_set_invalid_success_code)
	ts.Run(PostObject_upload_larger_than_chunk)
	ts.Run(PostObject_set_key_from_filename)
	ts.Run(PostObject_ignored_header)
	ts.Run(PostObject_case_insensitive_condition_fields)
	ts.Run(PostObject_escaped_field_values)
	ts.Run(PostObject_success_redirect_action)
	ts.Run(PostObject_invalid_signature)
	ts.Run(PostObject_invalid_access_key)
	ts.Run(PostObject_invalid_date_format)
	ts.Run(PostObject_no_key_specified)
	ts.Run(PostObject_missing_signature)
	ts.Run(PostObject_missing_policy_condition)
	ts.Run(PostObject_user_specified_header)
	ts.Run(PostObject_request_missing_policy_specified_field)
	ts.Run(PostObject_condition_is_case_sensitive)
	ts.Run(PostObject_expires_is_case_sensitive)
	ts.Run(PostObject_expired_policy)
	ts.Run(PostObject_invalid_request_field_value)
	ts.Run(PostObject_missing_expires_condition)
	ts.Run(PostObject_missing_conditions_list)
	ts.Run(PostObject_upload_size_limit_exceeded)
	ts.Run(PostObject_missing_content_length_argument)
	ts.Run(PostObject_invalid_content_length_argument)
	ts.Run(PostObject_upload_size_below_minimum)
	ts.Run(PostObject_empty_conditions)
}

func TestConditional(ts *TestState) {
	ts.Run(Conditional_get_ifmatch_good)
	ts.Run(Conditional_get_ifmatch_failed)
	ts.Run(Conditional_get_ifnonematch_good)
	ts.Run(Conditional_get_ifnonematch_failed)
	ts.Run(Conditional_get_ifmodifiedsince_good)
	ts.Run(Conditional_get_ifmodifiedsince_failed)
	ts.Run(Conditional_get_ifunmodifiedsince_good)
	ts.Run(Conditional_get_ifunmodifiedsince_failed)
	ts.Run(Conditional_put_ifmatch_good)
	ts.Run(Conditional_put_ifmatch_failed)
	ts.Run(Conditional_put_ifmatch_overwrite_existed_good)
	ts.Run(Conditional_put_ifmatch_nonexisted_failed)
	ts.Run(Conditional_put_ifnonmatch_good)
	ts.Run(Conditional_put_ifnonmatch_failed)
	ts.Run(Conditional_put_ifnonmatch_nonexisted_good)
	ts.Run(Conditional_put_ifnonmatch_overwrite_existed_failed)
}

func TestObjectAccess(ts *TestState) {
	ts.Run(ObjectAccess_raw_get)
	ts.Run(ObjectAccess_raw_get_bucket_gone)
	ts.Run(ObjectAccess_delete_key_bucket_gone)
	ts.Run(ObjectAccess_raw_get_object_gone)
	ts.Run(ObjectAccess_raw_get_bucket_acl)
	ts.Run(ObjectAccess_raw_get_object_acl)
	ts.Run(ObjectAccess_raw_authenticated)
	ts.Run(ObjectAccess_raw_authenticated_bucket_acl)
	ts.Run(ObjectAccess_raw_authenticated_object_acl)
	ts.Run(ObjectAccess_raw_authenticated_bucket_gone)
	ts.Run(ObjectAccess_raw_authenticated_object_gone)
	ts.Run(ObjectAccess_x_amz_expires_not_expired)
	ts.Run(ObjectAccess_x_amz_expires_out_range_zero)
	ts.Run(ObjectAccess_x_amz_expires_out_max_range)
	ts.Run(ObjectAccess_x_amz_expires_out_positive_range)
	ts.Run(ObjectAccess_anon_put)
	ts.Run(ObjectAccess_anon_put_write_access)
	ts.Run(ObjectAccess_put_authenticated)
	ts.Run(ObjectAccess_raw_put_authenticated_expired)
}

func TestACL(ts *TestState) {
	ts.Run(ACL_bucket_default)
	ts.Run(ACL_bucket_canned_during_create)
	ts.Run(ACL_bucket_canned)
	ts.Run(ACL_bucket_canned_publicreadwrite)
	ts.Run(ACL_bucket_canned_authenticatedread)
	ts.Run(ACL_object_default)
	ts.Run(ACL_object_canned_during_create)
	ts.Run(ACL_object_canned)
	ts.Run(ACL_object_canned_publicreadwrite)
	ts.Run(ACL_object_canned_authenticatedread)
	ts.Run(ACL_object_canned_bucketownerread)
	ts.Run(ACL_object_canned_bucketownerfullcontrol)
	ts.Run(ACL_object_full_control_verify_owner)
	ts.Run(ACL_object_full_control_verify_attributes)
	ts.Run(ACL_bucket_canned_private_to_private)
	ts.Run(ACL_object_acl_full_control)
	ts.Run(ACL_object_acl_write)
	ts.Run(ACL_object_acl_write_acp)
	ts.Run(ACL_object_acl_read)
	ts.Run(ACL_object_acl_read_acp)
	ts.Run(ACL_bucket_grant_userid_fullcontrol)
	ts.Run(ACL_bucket_grant_userid_read)
	ts.Run(ACL_bucket_grant_userid_readacp)
	ts.Run(ACL_bucket_grant_userid_write)
	ts.Run(ACL_bucket_grant_userid_writeacp)
	ts.Run(ACL_bucket_grant_nonexist_user)
	ts.Run(ACL_bucket_no_grants)
	ts.Run(ACL_object_header_acl_grants)
	ts.Run(ACL_bucket_header_acl_grants)
	ts.Run(ACL_bucket_grant_email)
	ts.Run(ACL_bucket_grant_email_notexist)
	ts.Run(ACL_bucket_revoke_all)
	ts.Run(ACL_access_bucket_private_object_private)
}

func TestHeaderAuth(ts *TestState) {
	ts.Run(HeaderAuth_create_bad_md5_invalid_garbage)
	ts.Run(HeaderAuth_create_bad_md5_wrong_digest)
	ts.Run(HeaderAuth_create_bad_date_skewed)
	ts.Run(HeaderAuth_unknown_access_key)
	ts.Run(HeaderAuth_wrong_secret_key)
}

func TestFullFlow(ts *TestState) {
	TestBucketList(ts)
	TestBucket(ts)
	TestBucketNaming(ts)
	TestObject(ts)
	TestObjectMetadata(ts)
	TestPostObject(ts)
	TestConditional(ts)
	TestObjectAccess(ts)
	TestACL(ts)
	TestHeaderAuth(ts)
}

// TestGroup is a named set of tests selectable from the command line
type TestGroup struct {
	Name  string
	Usage string
	Run   func(ts *TestState)
}

// Groups returns the test groups in run order
func Groups() []TestGroup {
	return []TestGroup{
		{Name: "bucket-list", Usage: "bucket listing with delimiters, prefixes, markers and max-keys", Run: TestBucketList},
		{Name: "bucket", Usage: "bucket create, head, delete and location", Run: TestBucket},
		{Name: "bucket-naming", Usage: "bucket name validation", Run: TestBucketNaming},
		{Name: "object", Usage: "object read, write and delete", Run: TestObject},
		{Name: "object-metadata", Usage: "user metadata round trips", Run: TestObjectMetadata},
		{Name: "post-object", Usage: "browser POST uploads", Run: TestPostObject},
		{Name: "conditional", Usage: "conditional GET and PUT", Run: TestConditional},
		{Name: "object-access", Usage: "anonymous, authenticated and presigned access", Run: TestObjectAccess},
		{Name: "acl", Usage: "canned acls, grants and acl headers", Run: TestACL},
		{Name: "header-auth", Usage: "request header validation", Run: TestHeaderAuth},
	}
}

type IntTests map[string]IntTest

func GetIntTests() IntTests {
	return IntTests{
		"BucketList_empty":                                       BucketList_empty,
		"BucketList_distinct":                                    BucketList_distinct,
		"BucketList_many":                                        BucketList_many,
		"BucketList_delimiter_basic":                             BucketList_delimiter_basic,
		"BucketList_delimiter_prefix":                            BucketList_delimiter_prefix,
		"BucketList_delimiter_prefix_ends_with_delimiter":        BucketList_delimiter_prefix_ends_with_delimiter,
		"BucketList_delimiter_alt":                               BucketList_delimiter_alt,
		"BucketList_delimiter_prefix_underscore":                 BucketList_delimiter_prefix_underscore,
		"BucketList_delimiter_percentage":                        BucketList_delimiter_percentage,
		"BucketList_delimiter_whitespace":                        BucketList_delimiter_whitespace,
		"BucketList_delimiter_dot":                               BucketList_delimiter_dot,
		"BucketList_delimiter_unreadable":                        BucketList_delimiter_unreadable,
		"BucketList_delimiter_empty":                             BucketList_delimiter_empty,
		"BucketList_delimiter_none":                              BucketList_delimiter_none,
		"BucketList_delimiter_not_exist":                         BucketList_delimiter_not_exist,
		"BucketList_prefix_basic":                                BucketList_prefix_basic,
		"BucketList_prefix_alt":                                  BucketList_prefix_alt,
		"BucketList_prefix_empty":                                BucketList_prefix_empty,
		"BucketList_prefix_none":                                 BucketList_prefix_none,
		"BucketList_prefix_not_exist":                            BucketList_prefix_not_exist,
		"BucketList_prefix_unreadable":                           BucketList_prefix_unreadable,
		"BucketList_prefix_delimiter_basic":                      BucketList_prefix_delimiter_basic,
		"BucketList_prefix_delimiter_alt":                        BucketList_prefix_delimiter_alt,
		"BucketList_prefix_delimiter_prefix_not_exist":           BucketList_prefix_delimiter_prefix_not_exist,
		"BucketList_prefix_delimiter_delimiter_not_exist":        BucketList_prefix_delimiter_delimiter_not_exist,
		"BucketList_prefix_delimiter_prefix_delimiter_not_exist": BucketList_prefix_delimiter_prefix_delimiter_not_exist,
		"BucketList_maxkeys_one":                                 BucketList_maxkeys_one,
		"BucketList_maxkeys_zero":                                BucketList_maxkeys_zero,
		"BucketList_maxkeys_none":                                BucketList_maxkeys_none,
		"BucketList_maxkeys_invalid":                             BucketList_maxkeys_invalid,
		"BucketList_marker_none":                                 BucketList_marker_none,
		"BucketList_marker_empty":                                BucketList_marker_empty,
		"BucketList_marker_unreadable":                           BucketList_marker_unreadable,
		"BucketList_marker_not_in_list":                          BucketList_marker_not_in_list,
		"BucketList_marker_after_list":                           BucketList_marker_after_list,
		"BucketList_return_data":                                 BucketList_return_data,
		"BucketList_return_data_versioning":                      BucketList_return_data_versioning,
		"BucketList_objects_anonymous":                           BucketList_objects_anonymous,
		"BucketList_objects_anonymous_fail":                      BucketList_objects_anonymous_fail,
		"BucketList_long_name":                                   BucketList_long_name,
		"Bucket_notexist":                                        Bucket_notexist,
		"Bucket_delete_notexist":                                 Bucket_delete_notexist,
		"Bucket_delete_nonempty":                                 Bucket_delete_nonempty,
		"Bucket_concurrent_set_canned_acl":                       Bucket_concurrent_set_canned_acl,
		"Bucket_create_delete":                                   Bucket_create_delete,
		"Bucket_head":                                            Bucket_head,
		"Bucket_get_location":                                    Bucket_get_location,
		"Bucket_create_exists":                                   Bucket_create_exists,
		"Bucket_create_exists_nonowner":                          Bucket_create_exists_nonowner,
		"Bucket_create_then_list":                                Bucket_create_then_list,
		"BucketNaming_bad_starts_nonalpha":                       BucketNaming_bad_starts_nonalpha,
		"BucketNaming_bad_short_empty":                           BucketNaming_bad_short_empty,
		"BucketNaming_bad_short_one":                             BucketNaming_bad_short_one,
		"BucketNaming_bad_short_two":                             BucketNaming_bad_short_two,
		"BucketNaming_bad_long":                                  BucketNaming_bad_long,
		"BucketNaming_good_long_250":                             BucketNaming_good_long_250,
		"BucketNaming_good_long_251":                             BucketNaming_good_long_251,
		"BucketNaming_good_long_252":                             BucketNaming_good_long_252,
		"BucketNaming_good_long_253":                             BucketNaming_good_long_253,
		"BucketNaming_good_long_254":                             BucketNaming_good_long_254,
		"BucketNaming_good_long_255":                             BucketNaming_good_long_255,
		"BucketNaming_bad_ip":                                    BucketNaming_bad_ip,
		"BucketNaming_bad_punctuation":                           BucketNaming_bad_punctuation,
		"BucketNaming_dns_underscore":                            BucketNaming_dns_underscore,
		"BucketNaming_dns_long":                                  BucketNaming_dns_long,
		"BucketNaming_dns_dash_at_end":                           BucketNaming_dns_dash_at_end,
		"BucketNaming_dns_dot_dot":                               BucketNaming_dns_dot_dot,
		"BucketNaming_dns_dot_dash":                              BucketNaming_dns_dot_dash,
		"BucketNaming_dns_dash_dot":                              BucketNaming_dns_dash_dot,
		"Object_write_to_nonexist_bucket":                        Object_write_to_nonexist_bucket,
		"Object_read_notexist":                                   Object_read_notexist,
		"Object_requestid_matches_header_on_error":               Object_requestid_matches_header_on_error,
		"Object_multi_object_delete":                             Object_multi_object_delete,
		"Object_head_zero_bytes":                                 Object_head_zero_bytes,
		"Object_write_check_etag":                                Object_write_check_etag,
		"Object_write_cache_control":                             Object_write_cache_control,
		"Object_write_expires":                                   Object_write_expires,
		"Object_write_read_update_read_delete":                   Object_write_read_update_read_delete,
		"Object_write_file":                                      Object_write_file,
		"Object_write_file_multipart":                            Object_write_file_multipart,
		"Object_raw_response_headers":                            Object_raw_response_headers,
		"ObjectMetadata_none_to_good":                            ObjectMetadata_none_to_good,
		"ObjectMetadata_none_to_empty":                           ObjectMetadata_none_to_empty,
		"ObjectMetadata_overwrite_to_empty":                      ObjectMetadata_overwrite_to_empty,
		"ObjectMetadata_unicode":                                 ObjectMetadata_unicode,
		"ObjectMetadata_non_utf8":                                ObjectMetadata_non_utf8,
		"ObjectMetadata_empty_to_unreadable_prefix":              ObjectMetadata_empty_to_unreadable_prefix,
		"ObjectMetadata_empty_to_unreadable_suffix":              ObjectMetadata_empty_to_unreadable_suffix,
		"ObjectMetadata_empty_to_unreadable_infix":               ObjectMetadata_empty_to_unreadable_infix,
		"ObjectMetadata_overwrite_to_unreadable_prefix":          ObjectMetadata_overwrite_to_unreadable_prefix,
		"ObjectMetadata_overwrite_to_unreadable_suffix":          ObjectMetadata_overwrite_to_unreadable_suffix,
		"ObjectMetadata_overwrite_to_unreadable_infix":           ObjectMetadata_overwrite_to_unreadable_infix,
		"ObjectMetadata_replaced_on_put":                         ObjectMetadata_replaced_on_put,
		"PostObject_anonymous_request":                           PostObject_anonymous_request,
		"PostObject_authenticated_request":                       PostObject_authenticated_request,
		"PostObject_authenticated_request_bad_access_key":        PostObject_authenticated_request_bad_access_key,
		"PostObject_set_success_code":                            PostObject_set_success_code,
		"PostObject_set_invalid_success_code":                    PostObject_set_invalid_success_code,
		"PostObject_upload_larger_than_chunk":                    PostObject_upload_larger_than_chunk,
		"PostObject_set_key_from_filename":                       PostObject_set_key_from_filename,
		"PostObject_ignored_header":                              PostObject_ignored_header,
		"PostObject_case_insensitive_condition_fields":           PostObject_case_insensitive_condition_fields,
		"PostObject_escaped_field_values":                        PostObject_escaped_field_values,
		"PostObject_success_redirect_action":                     PostObject_success_redirect_action,
		"PostObject_invalid_signature":                           PostObject_invalid_signature,
		"PostObject_invalid_access_key":                          PostObject_invalid_access_key,
		"PostObject_invalid_date_format":                         PostObject_invalid_date_format,
		"PostObject_no_key_specified":                            PostObject_no_key_specified,
		"PostObject_missing_signature":                           PostObject_missing_signature,
		"PostObject_missing_policy_condition":                    PostObject_missing_policy_condition,
		"PostObject_user_specified_header":                       PostObject_user_specified_header,
		"PostObject_request_missing_policy_specified_field":      PostObject_request_missing_policy_specified_field,
		"PostObject_condition_is_case_sensitive":                 PostObject_condition_is_case_sensitive,
		"PostObject_expires_is_case_sensitive":                   PostObject_expires_is_case_sensitive,
		"PostObject_expired_policy":                              PostObject_expired_policy,
		"PostObject_invalid_request_field_value":                 PostObject_invalid_request_field_value,
		"PostObject_missing_expires_condition":                   PostObject_missing_expires_condition,
		"PostObject_missing_conditions_list":                     PostObject_missing_conditions_list,
		"PostObject_upload_size_limit_exceeded":                  PostObject_upload_size_limit_exceeded,
		"PostObject_missing_content_length_argument":             PostObject_missing_content_length_argument,
		"PostObject_invalid_content_length_argument":             PostObject_invalid_content_length_argument,
		"PostObject_upload_size_below_minimum":                   PostObject_upload_size_below_minimum,
		"PostObject_empty_conditions":                            PostObject_empty_conditions,
		"Conditional_get_ifmatch_good":                           Conditional_get_ifmatch_good,
		"Conditional_get_ifmatch_failed":                         Conditional_get_ifmatch_failed,
		"Conditional_get_ifnonematch_good":                       Conditional_get_ifnonematch_good,
		"Conditional_get_ifnonematch_failed":                     Conditional_get_ifnonematch_failed,
		"Conditional_get_ifmodifiedsince_good":                   Conditional_get_ifmodifiedsince_good,
		"Conditional_get_ifmodifiedsince_failed":                 Conditional_get_ifmodifiedsince_failed,
		"Conditional_get_ifunmodifiedsince_good":                 Conditional_get_ifunmodifiedsince_good,
		"Conditional_get_ifunmodifiedsince_failed":               Conditional_get_ifunmodifiedsince_failed,
		"Conditional_put_ifmatch_good":                           Conditional_put_ifmatch_good,
		"Conditional_put_ifmatch_failed":                         Conditional_put_ifmatch_failed,
		"Conditional_put_ifmatch_overwrite_existed_good":         Conditional_put_ifmatch_overwrite_existed_good,
		"Conditional_put_ifmatch_nonexisted_failed":              Conditional_put_ifmatch_nonexisted_failed,
		"Conditional_put_ifnonmatch_good":                        Conditional_put_ifnonmatch_good,
		"Conditional_put_ifnonmatch_failed":                      Conditional_put_ifnonmatch_failed,
		"Conditional_put_ifnonmatch_nonexisted_good":             Conditional_put_ifnonmatch_nonexisted_good,
		"Conditional_put_ifnonmatch_overwrite_existed_failed":    Conditional_put_ifnonmatch_overwrite_existed_failed,
		"ObjectAccess_raw_get":                                   ObjectAccess_raw_get,
		"ObjectAccess_raw_get_bucket_gone":                       ObjectAccess_raw_get_bucket_gone,
		"ObjectAccess_delete_key_bucket_gone":                    ObjectAccess_delete_key_bucket_gone,
		"ObjectAccess_raw_get_object_gone":                       ObjectAccess_raw_get_object_gone,
		"ObjectAccess_raw_get_bucket_acl":                        ObjectAccess_raw_get_bucket_acl,
		"ObjectAccess_raw_get_object_acl":                        ObjectAccess_raw_get_object_acl,
		"ObjectAccess_raw_authenticated":                         ObjectAccess_raw_authenticated,
		"ObjectAccess_raw_authenticated_bucket_acl":              ObjectAccess_raw_authenticated_bucket_acl,
		"ObjectAccess_raw_authenticated_object_acl":              ObjectAccess_raw_authenticated_object_acl,
		"ObjectAccess_raw_authenticated_bucket_gone":             ObjectAccess_raw_authenticated_bucket_gone,
		"ObjectAccess_raw_authenticated_object_gone":             ObjectAccess_raw_authenticated_object_gone,
		"ObjectAccess_x_amz_expires_not_expired":                 ObjectAccess_x_amz_expires_not_expired,
		"ObjectAccess_x_amz_expires_out_range_zero":              ObjectAccess_x_amz_expires_out_range_zero,
		"ObjectAccess_x_amz_expires_out_max_range":               ObjectAccess_x_amz_expires_out_max_range,
		"ObjectAccess_x_amz_expires_out_positive_range":          ObjectAccess_x_amz_expires_out_positive_range,
		"ObjectAccess_anon_put":                                  ObjectAccess_anon_put,
		"ObjectAccess_anon_put_write_access":                     ObjectAccess_anon_put_write_access,
		"ObjectAccess_put_authenticated":                         ObjectAccess_put_authenticated,
		"ObjectAccess_raw_put_authenticated_expired":             ObjectAccess_raw_put_authenticated_expired,
		"ACL_bucket_default":                                     ACL_bucket_default,
		"ACL_bucket_canned_during_create":                        ACL_bucket_canned_during_create,
		"ACL_bucket_canned":                                      ACL_bucket_canned,
		"ACL_bucket_canned_publicreadwrite":                      ACL_bucket_canned_publicreadwrite,
		"ACL_bucket_canned_authenticatedread":                    ACL_bucket_canned_authenticatedread,
		"ACL_object_default":                                     ACL_object_default,
		"ACL_object_canned_during_create":                        ACL_object_canned_during_create,
		"ACL_object_canned":                                      ACL_object_canned,
		"ACL_object_canned_publicreadwrite":                      ACL_object_canned_publicreadwrite,
		"ACL_object_canned_authenticatedread":                    ACL_object_canned_authenticatedread,
		"ACL_object_canned_bucketownerread":                      ACL_object_canned_bucketownerread,
		"ACL_object_canned_bucketownerfullcontrol":               ACL_object_canned_bucketownerfullcontrol,
		"ACL_object_full_control_verify_owner":                   ACL_object_full_control_verify_owner,
		"ACL_object_full_control_verify_attributes":              ACL_object_full_control_verify_attributes,
		"ACL_bucket_canned_private_to_private":                   ACL_bucket_canned_private_to_private,
		"ACL_object_acl_full_control":                            ACL_object_acl_full_control,
		"ACL_object_acl_write":                                   ACL_object_acl_write,
		"ACL_object_acl_write_acp":                               ACL_object_acl_write_acp,
		"ACL_object_acl_read":                                    ACL_object_acl_read,
		"ACL_object_acl_read_acp":                                ACL_object_acl_read_acp,
		"ACL_bucket_grant_userid_fullcontrol":                    ACL_bucket_grant_userid_fullcontrol,
		"ACL_bucket_grant_userid_read":                           ACL_bucket_grant_userid_read,
		"ACL_bucket_grant_userid_readacp":                        ACL_bucket_grant_userid_readacp,
		"ACL_bucket_grant_userid_write":                          ACL_bucket_grant_userid_write,
		"ACL_bucket_grant_userid_writeacp":                       ACL_bucket_grant_userid_writeacp,
		"ACL_bucket_grant_nonexist_user":                         ACL_bucket_grant_nonexist_user,
		"ACL_bucket_no_grants":                                   ACL_bucket_no_grants,
		"ACL_object_header_acl_grants":                           ACL_object_header_acl_grants,
		"ACL_bucket_header_acl_grants":                           ACL_bucket_header_acl_grants,
		"ACL_bucket_grant_email":                                 ACL_bucket_grant_email,
		"ACL_bucket_grant_email_notexist":                        ACL_bucket_grant_email_notexist,
		"ACL_bucket_revoke_all":                                  ACL_bucket_revoke_all,
		"ACL_access_bucket_private_object_private":               ACL_access_bucket_private_object_private,
		"HeaderAuth_create_bad_md5_invalid_garbage":              HeaderAuth_create_bad_md5_invalid_garbage,
		"HeaderAuth_create_bad_md5_wrong_digest":                 HeaderAuth_create_bad_md5_wrong_digest,
		"HeaderAuth_create_bad_date_skewed":                      HeaderAuth_create_bad_date_skewed,
		"HeaderAuth_unknown_access_key":                          HeaderAuth_unknown_access_key,
		"HeaderAuth_wrong_secret_key":                            HeaderAuth_wrong_secret_key,
	}
}
