/*
Package gatewaysdk is the Go client for the tenantgate HTTP API, and the
home of the request and response shapes the server writes.

# Overview

A Client starts unauthenticated. Login exchanges a username and password for
a signed token which the Client then presents as a Bearer token on every
tenant-scoped call:

	c := gatewaysdk.NewClient("https://gateway.example.com")

	login, err := c.Login(ctx, "alice", "s3cret")
	if err != nil {
		return err
	}
	fmt.Println("tenant:", login.User.TenantID)

	dash, err := c.Dashboard(ctx)

A token obtained elsewhere can be installed with SetToken.

# Errors

Every non-2xx response is returned as an *APIError carrying the HTTP status
and the server's message. Compare against the predefined values with
errors.Is, which matches on status code:

	if errors.Is(err, gatewaysdk.ErrUnauthorized) {
		// token missing, invalid or expired
	}

# Thread Safety

A Client is safe for concurrent use.
*/
package gatewaysdk
