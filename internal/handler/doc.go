// Package handler implements the main HTTP request handler for the join
// gateway. It matches join URLs carrying a share code, answers them with a
// redirect or with the join page body depending on the configured mode, and
// delegates every other path to the static file server.
package handler
