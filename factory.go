package main

import "context"

// buildEndpoint constructs the endpoint stack described by a URI: a leaf
// backend (file or s3), optionally wrapped in encryption.
func buildEndpoint(ctx context.Context, raw string, secrets Secrets, storageClass string, restoreRequest map[string]any) (Endpoint, error) {
	u, err := parseURI(raw)
	if err != nil {
		return nil, err
	}

	if u.Encrypted {
		if err := secrets.requirePassword(); err != nil {
			return nil, err
		}
	}

	var leaf Endpoint
	switch u.Scheme {
	case "file":
		leaf = NewFSEndpoint(u.Root)
	case "s3":
		if err := secrets.requireObjectStoreFields(); err != nil {
			return nil, err
		}
		leaf, err = NewS3Endpoint(ctx, ObjectStoreConfig{
			AccessKeyID:     secrets.AccessKeyID,
			SecretAccessKey: secrets.SecretAccessKey,
			SessionToken:    secrets.SessionToken,
			Region:          secrets.Region,
			Bucket:          u.Bucket,
			Prefix:          u.Prefix,
			StorageClass:    storageClass,
			RestoreRequest:  restoreRequest,
		})
		if err != nil {
			return nil, err
		}
	default:
		return nil, newUsageError("unknown scheme in uri: " + raw)
	}

	if !u.Encrypted {
		return leaf, nil
	}

	return NewEncEndpoint(leaf, secrets.Password)
}
