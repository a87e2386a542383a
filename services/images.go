package services

// Image is an uploaded file that is written only once the request has
// passed the ownership check and validation. Discard removes a stored file
// again when the record could not be saved.
type Image interface {
	Store() (string, error)
	Discard(ref string)
}

func storeImage(img Image) (*string, error) {
	if img == nil {
		return nil, nil
	}
	ref, err := img.Store()
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func discardImage(img Image, ref *string) {
	if img != nil && ref != nil {
		img.Discard(*ref)
	}
}
