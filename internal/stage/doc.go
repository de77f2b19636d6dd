// Package stage defines the contract shared by the build pipeline's stages and
// the helper that runs one stage with consistent logging.
package stage
