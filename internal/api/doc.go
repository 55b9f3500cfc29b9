// Package api serves the partners admin: the HTML table, a read-only JSON
// view of the collection, and health endpoints.
//
//	@title			Partners Admin API
//	@version		1.0
//	@description	Read-only view of the partner collection held by the admin
//	@BasePath		/api/v1
package api
