// Package request turns an inbound *http.Request into the ambient request
// used by validators: a snapshot of query parameters, body fields and
// uploaded files.
//
//	r, err := request.Parse(httpReq, request.WithMaxMemory(32<<20))
//	if err != nil {
//	    // ErrInvalidJSON, ErrInvalidForm, ErrUnsupportedMediaType, ErrBodyTooLarge
//	}
//	v := validator.New(rules,
//	    validator.WithRequest(r),
//	    validator.WithAutoPopulate(true),
//	)
//
// Uploaded files are read into memory as *FileUpload values; a field carrying
// several files holds []*FileUpload.
package request
