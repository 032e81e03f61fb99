package commands

import (
	"fmt"
	"strings"
)

// enhanceError wraps an error with context and suggestions for common cloud issues.
func enhanceError(action string, err error) error {
	msg := err.Error()

	var hint string
	switch {
	case strings.Contains(msg, "NoCredentialProviders") || strings.Contains(msg, "failed to retrieve credentials"):
		hint = "Configure AWS credentials: set AWS_PROFILE, AWS_ACCESS_KEY_ID/AWS_SECRET_ACCESS_KEY, or run 'aws configure'"
	case strings.Contains(msg, "ExpiredToken"):
		hint = "AWS session token expired. Refresh credentials or run 'aws sso login'"
	case strings.Contains(msg, "AccessDenied") || strings.Contains(msg, "UnauthorizedAccess"):
		hint = "Insufficient permissions. Apply the IAM policy from 'lambdaspectre init' to your role/user"
	case strings.Contains(msg, "NoSuchKey") || strings.Contains(msg, "NoSuchBucket"):
		hint = "Object not found. Check the s3://bucket/key location and --region"
	case strings.Contains(msg, "RequestExpired"):
		hint = "Request expired. Check system clock synchronization"
	case strings.Contains(msg, "GOOGLE_APPLICATION_CREDENTIALS"):
		hint = "Configure GCP credentials: set GOOGLE_APPLICATION_CREDENTIALS or run 'gcloud auth application-default login'"
	case strings.Contains(msg, "could not find default credentials"):
		hint = "Configure GCP credentials: run 'gcloud auth application-default login' or pass --gcp-credentials"
	case strings.Contains(msg, "googleapi: Error 403"):
		hint = "Insufficient permissions. Grant Storage Object Viewer on the bucket"
	case strings.Contains(msg, "googleapi: Error 404"):
		hint = "Object not found. Check the gs://bucket/object location"
	case strings.Contains(msg, "no such file or directory"):
		hint = "Pass a readable file path, '-' for stdin, s3://bucket/key or gs://bucket/object"
	}

	if hint != "" {
		return fmt.Errorf("%s: %w\n  hint: %s", action, err, hint)
	}
	return fmt.Errorf("%s: %w", action, err)
}
