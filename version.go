package axq

// Version is the released version of axq. Bumped at tag time.
const Version = "0.4.0"
