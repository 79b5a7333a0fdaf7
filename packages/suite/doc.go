// Package suite loads match suites: files that pair a JSON document with a
// list of path assertions against it.
//
// Suites are YAML (.match.yaml, .match.yml) or JSON (.match.json):
//
//	name: users endpoint
//	bodyFile: fixtures/users.json
//	from: data
//	cases:
//	  - name: every user is active
//	    path: users.*
//	    equals: {active: true}
//	  - name: nobody is banned
//	    path: users.?
//	    not: true
//	    schema: {required: [bannedAt]}
//
// A case carries exactly one of equals or schema. Bodies may be given inline
// (body) or as a file relative to the suite (bodyFile); from selects a
// sub-document with a gjson path before the case path is applied. A case may
// override the suite body.
package suite
