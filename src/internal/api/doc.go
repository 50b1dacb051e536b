// Package api provides the HTTP trigger API for sleep-proxy-client.
//
// The API lets a scheduler or a suspend hook start a registration over HTTP instead
// of spawning the CLI. It provides:
//   - Registration of one, several or all interfaces
//   - Ranked sleep proxy listing per interface
//   - Interface and request inspection
//   - Health checks
//
// Every request is an independent registration run. Nothing is kept between requests.
//
// # Response Format
//
// All successful responses wrap data in a "data" field:
//
//	{
//	  "data": { /* response payload */ }
//	}
//
// Error responses use the following format:
//
//	{
//	  "error": {
//	    "code": "ERROR_CODE",
//	    "message": "Human-readable error message",
//	    "details": { /* optional context */ }
//	  }
//	}
//
// A registration run that completes always answers 200, even when some interfaces
// failed; per-interface outcomes are in the results.
package api
