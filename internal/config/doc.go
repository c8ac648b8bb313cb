// Package config provides configuration loading, merging, and validation
// facilities for the sync engine client.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win for fields they set, later ones fill the gaps):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//
// The main entry points are [GetStructuredConfig] for the merged raw
// configuration and [GetClientConfig] for the validated client view.
package config
