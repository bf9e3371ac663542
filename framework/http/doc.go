// Package http provides Laravel-style request and response helpers and the
// middleware that validates requests before they reach a handler.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//
//	all  := req.All()            // query + form + JSON body, map[string]any
//	name := req.Input("name", "default")
//	page := req.Query("page", "1")
//	id   := req.RouteParam("id") // chi
//	err  := req.Bind(&payload)   // body stays readable after All
//
// Request implements unit.AttributeSource:
//
//	u := unit.New(engine, validators.User(), unit.WithSource(req))
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(data)          // 200 {"data": ...}
//	res.Created(data)          // 201 {"data": ...}
//	res.Error(400, "bad input") // {"message": "bad input"}
//	res.NotFound()             // 404 {"message": "Not found."}
//	res.ValidationError(errs)  // 422 {"errors": {"field": ["msg"]}}
//
// # Middleware
//
// ValidateRequest turns a UnitFactory into a form request: failures are
// answered with 422, successes reach the handler with the unit available
// through Validated. Localize negotiates the message locale from
// Accept-Language.
package http
