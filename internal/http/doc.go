// Package http provides the reference curations REST API.
//
// Routes mount under /api/curations:
//   - Requests: GET/POST /api/curations, GET /api/curations/{id}
//   - Actions: POST /api/curations/{id}/actions/{action}
//   - Timeline: GET/POST /api/curations/{id}/timeline
//   - Capabilities: GET /api/curations/publishing-data
//   - Publishing: GET /api/curations/publish-check?topic=record:{id},
//     POST /api/curations/draft-updates
//
// Host applications can register the handlers on their own mux.
package http
