package locale

import goi18n "github.com/nicksnyder/go-i18n/v2/i18n"

// Message ids.
const (
	ProductNameRequired = "product.name_required"
	ProductInvalidPrice = "product.invalid_price"
	ProductCreateFailed = "product.create_failed"
	ProductUpdateFailed = "product.update_failed"
	ProductDeleteFailed = "product.delete_failed"
	ProductNotFound     = "product.not_found"
	ProductDeleteTitle  = "product.delete_title"
	ProductDeleteAsk    = "product.delete_confirm"
	DataLoadFailed      = "data.load_failed"
	ImagesLimit         = "images.limit"
	ImagesInvalid       = "images.invalid"
	ImageNotFound       = "images.not_found"
	VariableAddFailed   = "variable.add_failed"
	VariableRemoveFail  = "variable.remove_failed"
	CategoryDeleteTitle = "category.delete_title"
	CategoryDeleteAsk   = "category.delete_confirm"
	CategoryDeleteWarn  = "category.delete_warning"
	BrandDeleteTitle    = "brand.delete_title"
	BrandDeleteAsk      = "brand.delete_confirm"
	ListNameRequired    = "list.name_required"
	ListSaveFailed      = "list.save_failed"
	ListDeleteFailed    = "list.delete_failed"
	SettingsSaveFailed  = "settings.save_failed"
	SettingsInvalidTel  = "settings.invalid_phone"
	AuthInvalidLogin    = "auth.invalid_credentials"
	GenericError        = "generic.error"
	ShowingCount        = "products.showing"
	ConfirmRequired     = "generic.confirm_required"
	VariableNotFound    = "variable.not_found"
	ListItemNotFound    = "list.not_found"

	ExportSheet       = "export.sheet"
	ExportColName     = "export.col_name"
	ExportColPrice    = "export.col_price"
	ExportColCategory = "export.col_category"
	ExportColBrand    = "export.col_brand"
	ExportColImages   = "export.col_images"
	ExportColCreated  = "export.col_created"
)

var hebrew = []*goi18n.Message{
	{ID: ProductNameRequired, Other: "שם המוצר הוא שדה חובה"},
	{ID: ProductInvalidPrice, Other: "יש להזין מחיר תקין"},
	{ID: ProductCreateFailed, Other: "אירעה שגיאה ביצירת המוצר"},
	{ID: ProductUpdateFailed, Other: "אירעה שגיאה בעדכון המוצר"},
	{ID: ProductDeleteFailed, Other: "אירעה שגיאה במחיקת המוצר"},
	{ID: ProductNotFound, Other: "מוצר לא נמצא"},
	{ID: ProductDeleteTitle, Other: "מחיקת מוצר"},
	{ID: ProductDeleteAsk, Other: "האם אתה בטוח שברצונך למחוק את המוצר \"{{.Name}}\"? פעולה זו אינה ניתנת לביטול."},
	{ID: DataLoadFailed, Other: "אירעה שגיאה בטעינת הנתונים"},
	{ID: ImagesLimit, Other: "ניתן להעלות עד 5 תמונות"},
	{ID: ImagesInvalid, Other: "ניתן להעלות רק תמונות JPG, PNG או WEBP עד 2MB"},
	{ID: VariableAddFailed, Other: "אירעה שגיאה בהוספת המשתנה"},
	{ID: VariableRemoveFail, Other: "אירעה שגיאה במחיקת המשתנה"},
	{ID: CategoryDeleteTitle, Other: "מחיקת קטגוריה"},
	{ID: CategoryDeleteAsk, Other: "האם אתה בטוח שברצונך למחוק את הקטגוריה \"{{.Name}}\"?"},
	{ID: CategoryDeleteWarn, Other: "שים לב: מחיקת קטגוריה תשפיע על כל המוצרים המשויכים אליה."},
	{ID: BrandDeleteTitle, Other: "מחיקת מותג"},
	{ID: BrandDeleteAsk, Other: "האם אתה בטוח שברצונך למחוק את המותג \"{{.Name}}\"?"},
	{ID: ListNameRequired, Other: "יש להזין שם"},
	{ID: ListSaveFailed, Other: "אירעה שגיאה בשמירת השינויים"},
	{ID: ListDeleteFailed, Other: "אירעה שגיאה במחיקה"},
	{ID: SettingsSaveFailed, Other: "אירעה שגיאה בשמירת ההגדרות"},
	{ID: SettingsInvalidTel, Other: "מספר הטלפון אינו תקין"},
	{ID: AuthInvalidLogin, Other: "אימייל או סיסמה שגויים"},
	{ID: GenericError, Other: "אירעה שגיאה, נסה שוב מאוחר יותר"},
	{ID: ShowingCount, Other: "מציג {{.Count}} מוצרים מתוך {{.Total}}"},
	{ID: ConfirmRequired, Other: "יש לאשר את הפעולה"},
	{ID: VariableNotFound, Other: "המאפיין לא נמצא"},
	{ID: ListItemNotFound, Other: "הפריט לא נמצא"},
	{ID: ImageNotFound, Other: "התמונה לא נמצאה"},
	{ID: ExportSheet, Other: "מוצרים"},
	{ID: ExportColName, Other: "שם"},
	{ID: ExportColPrice, Other: "מחיר"},
	{ID: ExportColCategory, Other: "קטגוריה"},
	{ID: ExportColBrand, Other: "מותג"},
	{ID: ExportColImages, Other: "תמונות"},
	{ID: ExportColCreated, Other: "נוצר בתאריך"},
}

var english = []*goi18n.Message{
	{ID: ProductNameRequired, Other: "Product name is required"},
	{ID: ProductInvalidPrice, Other: "Enter a valid price"},
	{ID: ProductCreateFailed, Other: "Failed to create the product"},
	{ID: ProductUpdateFailed, Other: "Failed to update the product"},
	{ID: ProductDeleteFailed, Other: "Failed to delete the product"},
	{ID: ProductNotFound, Other: "Product not found"},
	{ID: ProductDeleteTitle, Other: "Delete product"},
	{ID: ProductDeleteAsk, Other: "Are you sure you want to delete the product \"{{.Name}}\"? This cannot be undone."},
	{ID: DataLoadFailed, Other: "Failed to load data"},
	{ID: ImagesLimit, Other: "You can upload up to 5 images"},
	{ID: ImagesInvalid, Other: "Only JPG, PNG or WEBP images up to 2MB are allowed"},
	{ID: VariableAddFailed, Other: "Failed to add the attribute"},
	{ID: VariableRemoveFail, Other: "Failed to remove the attribute"},
	{ID: CategoryDeleteTitle, Other: "Delete category"},
	{ID: CategoryDeleteAsk, Other: "Are you sure you want to delete the category \"{{.Name}}\"?"},
	{ID: CategoryDeleteWarn, Other: "Note: deleting a category affects every product assigned to it."},
	{ID: BrandDeleteTitle, Other: "Delete brand"},
	{ID: BrandDeleteAsk, Other: "Are you sure you want to delete the brand \"{{.Name}}\"?"},
	{ID: ListNameRequired, Other: "Enter a name"},
	{ID: ListSaveFailed, Other: "Failed to save changes"},
	{ID: ListDeleteFailed, Other: "Failed to delete"},
	{ID: SettingsSaveFailed, Other: "Failed to save settings"},
	{ID: SettingsInvalidTel, Other: "The phone number is not valid"},
	{ID: AuthInvalidLogin, Other: "Invalid email or password"},
	{ID: GenericError, Other: "Something went wrong, please try again later"},
	{ID: ShowingCount, Other: "Showing {{.Count}} of {{.Total}} products"},
	{ID: ConfirmRequired, Other: "Please confirm this action"},
	{ID: VariableNotFound, Other: "Attribute not found"},
	{ID: ListItemNotFound, Other: "Item not found"},
	{ID: ImageNotFound, Other: "Image not found"},
	{ID: ExportSheet, Other: "Products"},
	{ID: ExportColName, Other: "Name"},
	{ID: ExportColPrice, Other: "Price"},
	{ID: ExportColCategory, Other: "Category"},
	{ID: ExportColBrand, Other: "Brand"},
	{ID: ExportColImages, Other: "Images"},
	{ID: ExportColCreated, Other: "Created"},
}
